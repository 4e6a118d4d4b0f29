package auth

import (
	"context"
	"errors"
	"time"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

// RetryConfig holds retry configuration for remote operations.
// Only domain.TransientIOError is retried; every other failure category
// propagates immediately.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per operation.
	MaxAttempts int

	// BackoffBase is the initial backoff duration.
	BackoffBase time.Duration

	// BackoffMultiplier is applied to backoff on each retry.
	BackoffMultiplier float64

	// MaxBackoff caps the maximum backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns sensible retry defaults for remote operations.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       2 * time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        30 * time.Second,
	}
}

// WithAttempts returns a copy of the config with MaxAttempts replaced.
// attempts below 1 is clamped to 1 (one attempt, no retries).
func (c RetryConfig) WithAttempts(attempts int) RetryConfig {
	if attempts < 1 {
		attempts = 1
	}
	c.MaxAttempts = attempts
	return c
}

// Retry runs fn up to cfg.MaxAttempts times, backing off exponentially
// between attempts. Retries stop as soon as fn returns nil, a
// non-transient error, or the context is done.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	backoff := cfg.BackoffBase
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var transient *domain.TransientIOError
		if !errors.As(lastErr, &transient) {
			return lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return lastErr
}
