// Package retry provides a bounded retry policy with exponential
// backoff and an optional per-attempt timeout. The policy is a value,
// not ad hoc loop code, so callers can configure it once and tests can
// exercise it with a client that fails N times then succeeds.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrMaxAttemptsExceeded is returned when max retry attempts are exceeded.
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// Config configures retry behavior.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including the initial one).
	MaxAttempts int
	// PerAttemptTimeout bounds each individual attempt. Zero means no
	// per-attempt deadline beyond what the caller's context carries.
	PerAttemptTimeout time.Duration
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
	// IsRetryable determines whether an error should be retried.
	// Nil retries everything.
	IsRetryable func(error) bool
}

// DefaultConfig returns a default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

func (c *Config) setDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
}

// Do executes fn with the configured retry policy. Each attempt
// receives a context derived from ctx, bounded by PerAttemptTimeout
// when one is set. Exhausting the budget wraps the last error in
// ErrMaxAttemptsExceeded.
func Do(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	config.setDefaults()

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}

		err := runAttempt(ctx, config.PerAttemptTimeout, fn)
		if err == nil {
			return nil
		}

		lastErr = err

		if config.IsRetryable != nil && !config.IsRetryable(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt < config.MaxAttempts {
			backoff := time.Duration(float64(delay) * math.Pow(config.Multiplier, float64(attempt-1)))
			if backoff > config.MaxDelay {
				backoff = config.MaxDelay
			}

			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, config.MaxAttempts, lastErr)
}

func runAttempt(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}
