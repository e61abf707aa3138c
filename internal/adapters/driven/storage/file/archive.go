package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// Ensure Archive implements the interface.
var _ driven.ArticleArchive = (*Archive)(nil)

// Archive writes canonical article text as markdown files.
// Articles whose titles collapse to the same slug overwrite each other.
type Archive struct {
	dir string
}

// NewArchive creates an archive rooted at dir.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// Dir returns the archive directory.
func (a *Archive) Dir() string {
	return a.dir
}

// Write stores the article text as <slug>.md.
func (a *Archive) Write(ctx context.Context, article domain.NormalisedArticle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if article.Slug == "" {
		return fmt.Errorf("%w: article %s has no slug", domain.ErrInvalidInput, article.ArticleID)
	}
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	return writeAtomic(filepath.Join(a.dir, article.Filename()), []byte(article.Text+"\n"))
}
