// Package httpapi is the JSON-over-HTTP transport shared by the AI provider
// adapters: request encoding, per-provider throttling, and retry on 429.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// DefaultMaxRetries bounds the retries after a 429 or 503 response.
const DefaultMaxRetries = 3

// StatusError is returned for a non-2xx response after retries.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// Client posts JSON to one provider.
type Client struct {
	provider   string
	http       *http.Client
	limiter    *RateLimiter
	maxRetries int
}

// Options configures a Client. Zero values select defaults.
type Options struct {
	Timeout    time.Duration
	Limiter    *RateLimiter
	MaxRetries int
	HTTPClient *http.Client
}

// NewClient creates a client for the named provider.
func NewClient(provider string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(provider)
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}
	return &Client{provider: provider, http: hc, limiter: limiter, maxRetries: retries}
}

// Provider returns the provider name used in errors.
func (c *Client) Provider() string {
	return c.provider
}

// PostJSON sends body as JSON to url and decodes a 2xx response into out.
// Throttled responses are retried after the advertised delay.
func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		status, respBody, retryAfter, err := c.send(ctx, url, header, payload)
		if err != nil {
			return err
		}

		if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
			c.limiter.RecordRateLimitError(retryAfter)
			if attempt < c.maxRetries {
				logger.Warn("%s throttled (status %d), retry %d/%d", c.provider, status, attempt+1, c.maxRetries)
				continue
			}
		}

		if status < 200 || status > 299 {
			return &StatusError{Provider: c.provider, StatusCode: status, Body: errorMessage(respBody)}
		}

		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

func (c *Client) send(ctx context.Context, url string, header http.Header, payload []byte) (int, []byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, parseRetryAfter(resp.Header.Get("Retry-After")), nil
}

// parseRetryAfter reads the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// errorMessage extracts {"error":{"message":...}} or {"error":"..."} when
// present, else returns the body.
func errorMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	return string(body)
}
