package driving

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// SyncDriver pushes changed articles through the remote workflow:
// upload, index resolution, index attach, agent resolution and binding.
type SyncDriver interface {
	// Sync loads the persisted RunState and syncs the changed articles.
	Sync(ctx context.Context, changed []domain.NormalisedArticle) domain.SyncResult

	// SyncFrom syncs the changed articles starting from an explicit prior state.
	SyncFrom(ctx context.Context, changed []domain.NormalisedArticle, prior domain.RunState) domain.SyncResult
}
