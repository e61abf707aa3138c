package services

import (
	"time"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// Ensure DeltaDetector implements the interface.
var _ driving.DeltaDetector = (*DeltaDetector)(nil)

// DeltaDetector classifies articles as new, updated or unchanged
// by comparing content fingerprints with the prior snapshot.
type DeltaDetector struct {
	normaliser driven.Normaliser
	now        func() time.Time
}

// NewDeltaDetector creates a detector using the given normaliser.
func NewDeltaDetector(normaliser driven.Normaliser) *DeltaDetector {
	return &DeltaDetector{
		normaliser: normaliser,
		now:        time.Now,
	}
}

// Detect partitions the considered articles and builds the replacement
// snapshot. Only the first limit articles are considered when limit > 0.
// Records for articles that are not considered are dropped from the new
// snapshot. Nothing is persisted.
func (d *DeltaDetector) Detect(
	articles []domain.Article,
	prior domain.FingerprintSnapshot,
	limit int,
) (domain.ChangeSet, domain.FingerprintSnapshot) {
	considered := articles
	if limit > 0 && limit < len(articles) {
		considered = articles[:limit]
	}

	checked := d.now().UTC()
	var changes domain.ChangeSet
	next := make(domain.FingerprintSnapshot, len(considered))

	for _, article := range considered {
		if _, seen := next[article.ID]; seen {
			logger.Warn("delta: duplicate article %s ignored", article.ID)
			continue
		}

		normalised := d.normaliser.Normalise(article)
		change := domain.Change{Article: article, Normalised: normalised}

		rec, ok := prior.Lookup(article.ID)
		switch {
		case !ok:
			change.Kind = domain.ChangeNew
			changes.New = append(changes.New, change)
		case rec.Fingerprint != normalised.Fingerprint:
			change.Kind = domain.ChangeUpdated
			changes.Updated = append(changes.Updated, change)
		default:
			change.Kind = domain.ChangeUnchanged
			changes.Unchanged = append(changes.Unchanged, change)
		}
		logger.Debug("delta: %s %s (%s)", change.Kind, article.ID, normalised.Slug)

		next[article.ID] = domain.FingerprintRecord{
			ArticleID:   article.ID,
			Title:       article.Title,
			Slug:        normalised.Slug,
			Fingerprint: normalised.Fingerprint,
			UpdatedAt:   article.UpdatedAt,
			LastChecked: checked,
		}
	}

	logger.Info("delta: %d considered, %d new, %d updated, %d unchanged",
		changes.Len(), len(changes.New), len(changes.Updated), len(changes.Unchanged))

	return changes, next
}
