package driven

import "github.com/custodia-labs/helpsync/internal/core/domain"

// Normaliser converts an article into its canonical representation.
// Implementations are pure: the same article always yields the same result,
// and malformed markup degrades to empty text rather than failing.
type Normaliser interface {
	Normalise(article domain.Article) domain.NormalisedArticle
}
