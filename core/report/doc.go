// Package report collects the per-run counters the reconciliation engine
// produces and archives finished reports to object storage.
package report
