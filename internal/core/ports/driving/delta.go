package driving

import "github.com/custodia-labs/helpsync/internal/core/domain"

// DeltaDetector partitions articles against a prior snapshot.
type DeltaDetector interface {
	// Detect classifies the first limit articles (all when limit <= 0)
	// and returns the partition with the replacement snapshot.
	// It does not persist anything.
	Detect(
		articles []domain.Article,
		prior domain.FingerprintSnapshot,
		limit int,
	) (domain.ChangeSet, domain.FingerprintSnapshot)
}
