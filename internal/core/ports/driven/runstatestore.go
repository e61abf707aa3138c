package driven

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// RunStateStore persists the sync workflow record.
type RunStateStore interface {
	// Load returns the persisted state, or a zero state on first run
	// or when the record is unreadable.
	Load(ctx context.Context) (domain.RunState, error)

	// Save replaces the persisted state.
	Save(ctx context.Context, state domain.RunState) error
}
