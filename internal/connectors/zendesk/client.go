package zendesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

const (
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 30 * time.Second

	// maxRateLimitRetries bounds consecutive 429 responses for one request.
	maxRateLimitRetries = 3
)

// Client wraps a resty client with rate limiting and authentication.
type Client struct {
	http        *resty.Client
	rateLimiter *RateLimiter
	baseURL     string
}

// NewClient creates a Help Center API client from configuration.
func NewClient(cfg domain.ZendeskConfig) (*Client, error) {
	baseURL, err := BaseURL(cfg)
	if err != nil {
		return nil, err
	}

	var rc *resty.Client
	switch {
	case cfg.OAuthToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.OAuthToken, TokenType: "Bearer"})
		rc = resty.NewWithClient(oauth2.NewClient(context.Background(), ts))
	case cfg.Email != "" && cfg.Token != "":
		rc = resty.New().SetBasicAuth(cfg.Email+"/token", cfg.Token)
	default:
		rc = resty.New()
	}

	rc.SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "helpsync").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, _ error) bool {
			return r != nil && r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:        rc,
		rateLimiter: NewRateLimiter(ProactiveRate),
		baseURL:     baseURL,
	}, nil
}

// BaseURL returns the API root for the configured help center.
func BaseURL(cfg domain.ZendeskConfig) (string, error) {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/"), nil
	}
	if cfg.Subdomain == "" {
		return "", ErrNoSubdomain
	}
	return fmt.Sprintf("https://%s.zendesk.com", cfg.Subdomain), nil
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// get performs a throttled GET, decoding a successful response into result.
// A 429 response waits for the reset time and retries.
func (c *Client) get(ctx context.Context, url string, params map[string]string, result any) error {
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(result).
			Get(url)
		if err != nil {
			return fmt.Errorf("zendesk: request %s: %w", url, err)
		}

		if rlErr := c.rateLimiter.CheckRateLimit(resp.RawResponse); rlErr != nil {
			if attempt >= maxRateLimitRetries {
				return fmt.Errorf("%w: %w", domain.ErrRateLimited, rlErr)
			}
			continue
		}

		if resp.IsError() {
			return &APIError{
				StatusCode: resp.StatusCode(),
				Message:    errorMessage(resp.Body()),
				URL:        resp.Request.URL,
			}
		}
		return nil
	}
}

// errorMessage trims an error body for display.
func errorMessage(body []byte) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response"
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// asAPIError unwraps an APIError from err, if present.
func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
