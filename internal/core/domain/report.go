package domain

import "time"

// RunReport summarises one pipeline run.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string

	StartedAt  time.Time
	FinishedAt time.Time

	// DryRun is true when nothing was persisted or pushed.
	DryRun bool

	// Fetched is the number of articles returned by the source feed.
	Fetched int

	Added   int
	Updated int
	Skipped int

	FilesUploaded int
	UploadErrors  int

	AgentID string
	IndexID string

	// Success mirrors SyncResult.Success; a run with no changes is a success.
	Success bool

	// Error is set when the run aborted before syncing.
	Error string

	// Changes is the change set computed for the run.
	Changes ChangeSet `json:"-"`
}

// Duration returns how long the run took.
func (r RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
