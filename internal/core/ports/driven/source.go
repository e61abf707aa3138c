package driven

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// ArticleSource yields the finite list of articles for one run.
// Pagination and transient fetch errors are the source's concern.
type ArticleSource interface {
	// FetchArticles returns every article in source order, possibly none.
	FetchArticles(ctx context.Context) ([]domain.Article, error)
}
