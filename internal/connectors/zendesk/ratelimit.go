package zendesk

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate is the proactive throttle rate (one page every 200ms).
	ProactiveRate = 5

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-Rate-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-Rate-Limit-Remaining"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// defaultRetryAfter is used when a 429 carries no Retry-After header.
	defaultRetryAfter = 10 * time.Second
)

// RateLimiter throttles requests to the Help Center API.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int           // From API header, -1 when unknown
	limit     int           // From API header
	resetTime time.Time     // From Retry-After
	bucket    *rate.Limiter // Proactive throttling
}

// NewRateLimiter creates a rate limiter allowing perSecond requests.
func NewRateLimiter(perSecond float64) *RateLimiter {
	if perSecond <= 0 {
		perSecond = ProactiveRate
	}
	return &RateLimiter{
		remaining: -1,
		bucket:    rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	resetTime := r.resetTime
	r.mu.Unlock()

	if wait := time.Until(resetTime); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}
	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}
}

// CheckRateLimit checks if the response indicates rate limiting.
// Returns a RateLimitError if rate limited, nil otherwise. The next Wait
// blocks until the reset time.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	r.UpdateFromResponse(resp)
	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	resetAt := time.Now().Add(defaultRetryAfter)
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			resetAt = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}

	r.mu.Lock()
	r.resetTime = resetAt
	remaining := r.remaining
	limit := r.limit
	r.mu.Unlock()

	return &RateLimitError{
		ResetAt:   resetAt,
		Remaining: remaining,
		Limit:     limit,
	}
}

// Remaining returns the last reported remaining requests, or -1.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the last reported rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}
