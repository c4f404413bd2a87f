package llm

import (
	"context"
	"time"
)

// RetryConfig bounds a retried model call. The loop is explicit with an
// attempt counter; there is no recursion.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// RetryIf decides whether a failure is worth another attempt.
	// Nil means retry any transport error.
	RetryIf func(error) bool
}

// DefaultRetryConfig returns the standard bound: 3 attempts, 1s initial delay
// doubling up to 8s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     8 * time.Second,
	}
}

// WithRetry invokes fn up to cfg.MaxAttempts times with exponential backoff
// between failures. It returns the successful result, the number of attempts
// used, and the last error if all attempts failed. Context cancellation cuts
// the backoff short and returns the context error.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func(context.Context) (string, error)) (string, int, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 1 * time.Second
	}

	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = IsTransport
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, attempt, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts || !retryIf(err) {
			return "", attempt, err
		}

		select {
		case <-ctx.Done():
			return "", attempt, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return "", cfg.MaxAttempts, lastErr
}
