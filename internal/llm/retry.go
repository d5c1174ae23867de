package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retryGenerator retries transient provider errors with exponential backoff and jitter
type retryGenerator struct {
	inner  Generator
	config RetryConfig
}

// WithRetry wraps a Generator with retry logic
func WithRetry(g Generator, cfg RetryConfig) Generator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryGenerator{inner: g, config: cfg}
}

func (r *retryGenerator) Generate(ctx context.Context, input, prompt string) (string, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		out, err := r.inner.Generate(ctx, input, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err) || attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return "", lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rejected *ErrRejected
	if errors.As(err, &rejected) {
		return false
	}
	// Rate limits, outages, empty answers and network errors are treated as transient.
	return true
}

func (r *retryGenerator) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
