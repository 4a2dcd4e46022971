// Package server holds the HTTP status server configuration.
//
// The run command can expose a small HTTP endpoint reporting the
// progress of the in-flight reconciliation run; this package defines
// the configuration for it. The handlers themselves live in
// feature/status.
package server
