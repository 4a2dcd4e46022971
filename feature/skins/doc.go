// Package skins binds the reconciliation engine to the CS skin domain:
// the name classifier with its ordered rule list, the doppler phase
// family tables, and the HTTP clients for the inventory, market price
// and item detail providers.
package skins
