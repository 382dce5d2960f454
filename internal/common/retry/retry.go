// internal/common/retry/retry.go
package retry

import (
	"context"
	"time"
)

// Policy is a bounded retry with fixed delay, shared by the SQL-generation
// and narrative-generation call sites. Retryable decides per error whether
// another attempt makes sense; malformed-prompt-class errors never do.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// Do runs fn up to MaxAttempts times, sleeping Delay between attempts.
// It stops early on success, on a non-retryable error, or when ctx is
// cancelled, so an abandoned request never leaves a retry loop running.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
