package report

import "time"

// RunReport summarizes one reconciliation run. It is returned by the
// engine and optionally archived as JSON.
type RunReport struct {
	// RunID is the unique id assigned to the run.
	RunID string `json:"run_id"`
	// StartedAt is when the run began, UTC.
	StartedAt time.Time `json:"started_at"`
	// DurationMS is the wall-clock run time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Inserted counts newly appended ledger rows.
	Inserted int `json:"inserted"`
	// Updated counts pre-existing rows changed in the first pass.
	Updated int `json:"updated"`
	// Skipped counts items or rows left untouched (write-stop boundary,
	// ignore list, sold markers, unchanged values).
	Skipped int `json:"skipped"`
	// Repriced counts rows whose market or price changed in the refresh
	// pass.
	Repriced int `json:"repriced"`
	// DetailFetches counts detail provider calls, successful or not.
	DetailFetches int `json:"detail_fetches"`
	// CellsFlushed counts the buffered writes committed at the end.
	CellsFlushed int `json:"cells_flushed"`
}

// New starts a report for the given run id.
func New(runID string) *RunReport {
	return &RunReport{RunID: runID, StartedAt: time.Now().UTC()}
}

// Finish records the total run duration.
func (r *RunReport) Finish(d time.Duration) {
	r.DurationMS = d.Milliseconds()
}

// Mutations returns the number of rows the run actually changed.
func (r *RunReport) Mutations() int {
	return r.Inserted + r.Updated + r.Repriced
}
