package httpapi

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration for one provider.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// DefaultBackoff applies when a 429 carries no usable Retry-After.
	DefaultBackoff time.Duration
}

// DefaultRateLimits provides conservative defaults per provider.
var DefaultRateLimits = map[string]RateLimitConfig{
	"openai":    {RequestsPerSecond: 5, BurstSize: 5, DefaultBackoff: 20 * time.Second},
	"anthropic": {RequestsPerSecond: 2, BurstSize: 2, DefaultBackoff: 30 * time.Second},
	"ollama":    {RequestsPerSecond: 20, BurstSize: 20, DefaultBackoff: 2 * time.Second},
}

// RateLimiter throttles requests with a token bucket and honours the
// backoff period of the last 429 response.
type RateLimiter struct {
	mu             sync.Mutex
	limiter        *rate.Limiter
	retryAt        time.Time
	defaultBackoff time.Duration
}

// NewRateLimiter creates a rate limiter for the named provider.
func NewRateLimiter(provider string) *RateLimiter {
	cfg, ok := DefaultRateLimits[provider]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 5, BurstSize: 5, DefaultBackoff: 20 * time.Second}
	}
	return NewRateLimiterWithConfig(cfg)
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	if cfg.DefaultBackoff <= 0 {
		cfg.DefaultBackoff = 20 * time.Second
	}
	return &RateLimiter{
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		defaultBackoff: cfg.DefaultBackoff,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError sets a backoff period after a 429 response.
// A non-positive retryAfter selects the configured default.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = r.defaultBackoff
	}
	r.retryAt = time.Now().Add(retryAfter)
}
