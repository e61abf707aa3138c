package driven

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// ArticleArchive keeps a local copy of changed articles.
type ArticleArchive interface {
	// Write stores the article under its filename, replacing any file
	// with the same name.
	Write(ctx context.Context, article domain.NormalisedArticle) error
}
