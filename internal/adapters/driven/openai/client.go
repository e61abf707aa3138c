package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// Ensure Client implements the remote service interfaces.
var (
	_ driven.FileUploader       = (*Client)(nil)
	_ driven.VectorStoreService = (*Client)(nil)
	_ driven.AssistantService   = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultOpenAIURL
	DefaultTimeout = 60 * time.Second

	// betaHeader selects the Assistants v2 API.
	betaHeader = "assistants=v2"
)

// Endpoint groups used for per-endpoint call spacing.
const (
	endpointFiles        = "files"
	endpointVectorStores = "vector_stores"
	endpointFileBatches  = "file_batches"
	endpointAssistants   = "assistants"
)

// Client calls the OpenAI retrieval APIs.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	delay   time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// apiErrorBody is the OpenAI error envelope.
type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewClient creates a client. requestDelay is the fixed pause between
// consecutive calls to the same endpoint.
func NewClient(cfg domain.OpenAIConfig, requestDelay time.Duration) (*Client, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		delay:    requestDelay,
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

// limiter returns the call spacer for an endpoint group.
func (c *Client) limiter(endpoint string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[endpoint]
	if !ok {
		limit := rate.Inf
		if c.delay > 0 {
			limit = rate.Every(c.delay)
		}
		l = rate.NewLimiter(limit, 1)
		c.limiters[endpoint] = l
	}
	return l
}

// doJSON sends a JSON request and decodes the JSON response into out.
func (c *Client) doJSON(ctx context.Context, endpoint, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}
	return c.do(ctx, endpoint, method, path, body, "application/json", out)
}

// do sends a request after the endpoint's spacing delay.
func (c *Client) do(
	ctx context.Context,
	endpoint, method, path string,
	body io.Reader,
	contentType string,
	out any,
) error {
	if err := c.limiter(endpoint).Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != http.NoBody {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", betaHeader)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError builds an APIError from an error response.
func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}

	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiErr.Message = envelope.Error.Message
		apiErr.Type = envelope.Error.Type
		apiErr.Code = envelope.Error.Code
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, apiErr)
	}
	return apiErr
}
