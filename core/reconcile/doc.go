// Package reconcile implements the reconciliation engine: it folds a
// fresh inventory snapshot into the persisted ledger, enriches rows
// with classification, detail and market price data, refreshes the
// prices of pre-existing rows, and commits everything with a single
// flush at the very end of the run.
package reconcile
