package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(ctx, func() error {
			attempts++
			return nil
		}, 3, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(ctx, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns last error when attempts are exhausted", func(t *testing.T) {
		lastErr := errors.New("still down")
		attempts := 0
		err := RetryWithBackoff(ctx, func() error {
			attempts++
			return lastErr
		}, 3, time.Millisecond)

		require.ErrorIs(t, err, lastErr)
		assert.Equal(t, 3, attempts)
	})

	t.Run("rejects non-positive attempt cap", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		require.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		attempts := 0
		err := RetryWithBackoff(cancelled, func() error {
			attempts++
			return errors.New("never seen")
		}, 3, time.Millisecond)

		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, attempts)
	})

	t.Run("cancellation during backoff interrupts the wait", func(t *testing.T) {
		cancellable, cancel := context.WithCancel(ctx)

		attempts := 0
		done := make(chan error, 1)
		go func() {
			done <- RetryWithBackoff(cancellable, func() error {
				attempts++
				return errors.New("transient")
			}, 3, time.Hour)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
			assert.Equal(t, 1, attempts)
		case <-time.After(time.Second):
			t.Fatal("retry did not honor cancellation during backoff")
		}
	})
}
