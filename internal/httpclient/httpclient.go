// Package httpclient provides the shared retrying HTTP GET used by every
// provider client, generalized from the BallDontLie/SportMonks client
// pattern (rate-limit wait, build request, do, truncate-on-error body) with
// the retry/classification contract every source client must honor.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nadavbarak14/hoopsync/internal/ratelimit"
)

// Client is a rate-limited, retrying GET client shared by every source.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	Source     string
	Limiter    *ratelimit.Limiter
	MaxRetries int
	Logger     *slog.Logger
}

func New(baseURL, source string, limiter *ratelimit.Limiter, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		Source:     source,
		Limiter:    limiter,
		MaxRetries: 3,
		Logger:     logger,
	}
}

// APIError is a non-retryable 4xx/5xx (excluding 429) provider response.
type APIError struct {
	Source     string
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s returned %d: %s", e.Source, e.URL, e.StatusCode, e.Body)
}

// ParseError wraps a decode failure with resource context.
type ParseError struct {
	Source       string
	ResourceType string
	ResourceID   string
	Raw          string
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse %s/%s failed: %v (raw: %s)", e.Source, e.ResourceType, e.ResourceID, e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RateLimitError is the 429 path; RetryAfter is nil if the header was absent.
type RateLimitError struct {
	Source     string
	RetryAfter *time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited", e.Source)
}

// TimeoutError is a request-deadline-exceeded failure.
type TimeoutError struct {
	Source  string
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request to %s timed out after %s", e.Source, e.URL, e.Timeout)
}

// Get performs a rate-limited, retrying GET. Retryable failures (timeout,
// connection error, 429) are retried up to MaxRetries with
// ratelimit.Backoff; on 429 a Retry-After header is honored if present.
// Non-429 4xx/5xx responses and parse failures are not retried.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := ratelimit.Backoff(attempt-1, 500*time.Millisecond, 30*time.Second, true)
			if rle := (*RateLimitError)(nil); errors.As(lastErr, &rle) && rle.RetryAfter != nil {
				delay = *rle.RetryAfter
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		if !c.Limiter.Acquire(ctx, 0) {
			return nil, fmt.Errorf("%s: rate limiter acquire canceled", c.Source)
		}

		body, err := c.doOnce(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var apiErr *APIError
		var parseErr *ParseError
		if errors.As(err, &apiErr) || errors.As(err, &parseErr) {
			return nil, err // not retryable
		}
		c.Logger.Warn("http request failed, retrying", slog.String("source", c.Source), slog.String("url", u), slog.Int("attempt", attempt), slog.Any("error", err))
	}
	return nil, fmt.Errorf("%s: exhausted %d retries: %w", c.Source, c.MaxRetries, lastErr)
}

func (c *Client) doOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TimeoutError{Source: c.Source, URL: u, Timeout: c.HTTP.Timeout}
		}
		return nil, fmt.Errorf("%s: request %s: %w", c.Source, u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response body: %w", c.Source, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		var retryAfter *time.Duration
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				d := time.Duration(secs) * time.Second
				retryAfter = &d
			}
		}
		return nil, &RateLimitError{Source: c.Source, RetryAfter: retryAfter}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{Source: c.Source, StatusCode: resp.StatusCode, URL: u, Body: truncate(body, 300)}
	}

	return body, nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
