package runlog

import "time"

// Run is one batch invocation as recorded in the journal.
type Run struct {
	ID          string
	DatasetPath string
	StartedAt   time.Time
	FinishedAt  time.Time // zero while the run is still in flight

	Processed        int
	Skipped          int
	PartiallyUpdated int
	FullyUpdated     int
	Errored          int

	// Error is set when the batch itself aborted (store failures), not
	// for per-row errors.
	Error string
}

// RowOutcome is the terminal state of one row within one run.
type RowOutcome struct {
	RunID     string
	URL       string
	Outcome   string
	Error     string
	UpdatedAt time.Time
}
