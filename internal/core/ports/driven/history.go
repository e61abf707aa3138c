package driven

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// RunHistoryStore records pipeline run reports.
type RunHistoryStore interface {
	// Record appends a run report.
	Record(ctx context.Context, report domain.RunReport) error

	// List returns the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]domain.RunReport, error)

	// Prune keeps only the most recent 'keep' reports.
	Prune(ctx context.Context, keep int) error
}
