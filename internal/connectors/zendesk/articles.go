package zendesk

import (
	"context"
	"strconv"
	"time"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// maxPages guards against pagination that never terminates.
const maxPages = 1000

// Article is the Help Center API article record.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	Draft     bool      `json:"draft"`
	Locale    string    `json:"locale"`
	UpdatedAt time.Time `json:"updated_at"`
}

// articlePage is one page of the articles list endpoint.
type articlePage struct {
	Articles  []Article `json:"articles"`
	NextPage  *string   `json:"next_page"`
	Page      int       `json:"page"`
	PageCount int       `json:"page_count"`
	Count     int       `json:"count"`
}

// ArticlesPath returns the list endpoint, scoped to a locale when set.
func ArticlesPath(locale string) string {
	if locale == "" {
		return "/api/v2/help_center/articles.json"
	}
	return "/api/v2/help_center/" + locale + "/articles.json"
}

// ListArticles fetches every article page, most recently updated first.
func (c *Client) ListArticles(ctx context.Context, locale string, perPage int) ([]Article, error) {
	if perPage <= 0 || perPage > domain.DefaultPerPage {
		perPage = domain.DefaultPerPage
	}

	var all []Article
	for page := 1; ; page++ {
		if page > maxPages {
			return nil, ErrTooManyPages
		}

		var resp articlePage
		params := map[string]string{
			"page":       strconv.Itoa(page),
			"per_page":   strconv.Itoa(perPage),
			"sort_by":    "updated_at",
			"sort_order": "desc",
		}
		if err := c.get(ctx, ArticlesPath(locale), params, &resp); err != nil {
			if apiErr, ok := asAPIError(err); ok && apiErr.StatusCode == 404 && locale != "" {
				logger.Warn("zendesk: locale %q not found", locale)
			}
			return nil, err
		}

		if len(resp.Articles) == 0 {
			break
		}
		all = append(all, resp.Articles...)
		logger.Debug("zendesk: fetched page %d: %d articles", page, len(resp.Articles))

		if resp.NextPage == nil || *resp.NextPage == "" {
			break
		}
	}

	logger.Info("zendesk: fetched %d articles", len(all))
	return all, nil
}

// toDomain maps an API record to a domain article.
func (a Article) toDomain() domain.Article {
	return domain.Article{
		ID:        strconv.FormatInt(a.ID, 10),
		Title:     a.Title,
		Body:      a.Body,
		URL:       a.HTMLURL,
		UpdatedAt: a.UpdatedAt,
	}
}
