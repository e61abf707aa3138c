package driving

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// RunOptions tunes a single pipeline run.
type RunOptions struct {
	// Limit caps the number of articles considered. Zero uses the
	// configured value and a negative value disables the cap.
	Limit int

	// DryRun detects and reports without persisting or pushing anything.
	DryRun bool
}

// Pipeline runs fetch, detection and sync end to end.
type Pipeline interface {
	// Run executes one run. Partial sync failure is reported in the
	// RunReport, not returned as an error.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)
}

// Status is the persisted view of previous runs.
type Status struct {
	State        domain.RunState
	SnapshotSize int
	History      []domain.RunReport
}

// StatusService reports persisted run state.
type StatusService interface {
	Status(ctx context.Context, historyLimit int) (*Status, error)
}
