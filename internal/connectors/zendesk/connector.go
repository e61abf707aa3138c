package zendesk

import (
	"context"
	"fmt"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.ArticleSource = (*Connector)(nil)

// Connector fetches published Help Center articles.
type Connector struct {
	client  *Client
	locale  string
	perPage int
}

// New creates a Zendesk connector from configuration.
func New(cfg domain.ZendeskConfig) (*Connector, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a connector using an existing client.
func NewWithClient(client *Client, cfg domain.ZendeskConfig) *Connector {
	return &Connector{
		client:  client,
		locale:  cfg.Locale,
		perPage: cfg.PerPage,
	}
}

// FetchArticles returns every published article in API order.
// Drafts are skipped.
func (c *Connector) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	records, err := c.client.ListArticles(ctx, c.locale, c.perPage)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(records))
	for _, r := range records {
		if r.Draft {
			continue
		}
		articles = append(articles, r.toDomain())
	}
	return articles, nil
}
