package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/marktree/internal/store"
)

// MaxRetries is the number of store attempts per import.
const MaxRetries = 3

// IsRetryable reports whether a store error is transient.
func IsRetryable(err error) bool {
	var retryErr *store.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// withRetry calls fn up to MaxRetries times, waiting backoff(attempt)
// between attempts while fn fails with a retryable error. onRetry sees each
// retryable failure. Permanent errors and cancellation end the loop early.
func withRetry(ctx context.Context, backoff func(int) time.Duration, fn func() error, onRetry func(attempt int, err error)) error {
	var err error
	for attempt := range MaxRetries {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		if attempt == MaxRetries-1 {
			break
		}
		timer := time.NewTimer(backoff(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return err
}
