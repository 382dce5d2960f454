// internal/common/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func TestPolicy_Do_SucceedsFirstAttempt(t *testing.T) {
	policy := Policy{MaxAttempts: 3, Delay: time.Millisecond}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Do_RetriesUntilSuccess(t *testing.T) {
	policy := Policy{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		Retryable:   func(err error) bool { return errors.Is(err, errTransient) },
	}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicy_Do_ExhaustsAttempts(t *testing.T) {
	policy := Policy{MaxAttempts: 2, Delay: time.Millisecond}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls)
}

func TestPolicy_Do_NonRetryableStopsImmediately(t *testing.T) {
	policy := Policy{
		MaxAttempts: 5,
		Delay:       time.Millisecond,
		Retryable:   func(err error) bool { return errors.Is(err, errTransient) },
	}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errFatal
	})

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Do_ContextCancellationStopsLoop(t *testing.T) {
	policy := Policy{MaxAttempts: 10, Delay: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Do(ctx, func(ctx context.Context) error {
		calls++
		return errTransient
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, calls, 2)
}

func TestPolicy_Do_ZeroAttemptsStillRunsOnce(t *testing.T) {
	policy := Policy{}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
