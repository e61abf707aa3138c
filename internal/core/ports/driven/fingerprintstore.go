package driven

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// FingerprintStore persists the fingerprint snapshot across runs.
// The snapshot is read in full at run start and replaced in full at run end.
type FingerprintStore interface {
	// Load returns the current snapshot. A missing or unreadable snapshot
	// yields an empty one; implementations never fail a run over it.
	Load(ctx context.Context) (domain.FingerprintSnapshot, error)

	// Save atomically replaces the current snapshot.
	Save(ctx context.Context, snapshot domain.FingerprintSnapshot) error
}
