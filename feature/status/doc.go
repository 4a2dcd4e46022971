// Package status exposes the progress of the in-flight reconciliation
// run over HTTP. A Tracker drains the engine's progress channel; the
// Handler serves the latest event as JSON.
package status
