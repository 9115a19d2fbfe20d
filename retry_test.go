package docqa_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelays(t *testing.T) {
	t.Parallel()

	t.Run("default policy waits 2s then 4s", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, docqa.DefaultRetryDelays())
	})

	t.Run("caps delays at max", func(t *testing.T) {
		t.Parallel()

		delays := docqa.BackoffDelays(5, 2*time.Second, 10*time.Second)

		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second}, delays)
	})

	t.Run("single attempt has no delays", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docqa.BackoffDelays(1, time.Second, time.Second))
	})
}

func TestRetry(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("returns value after transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var retries []int
		v, err := docqa.Retry(context.Background(), delays, func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("temporary")
			}
			return "ok", nil
		}, func(attempt int, _ error) {
			retries = append(retries, attempt)
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, retries)
	})

	t.Run("returns last error when attempts are exhausted", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := docqa.Retry(context.Background(), delays, func(context.Context) (int, error) {
			calls++
			return 0, errors.New("still down")
		}, nil)

		require.EqualError(t, err, "still down")
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry invalid input", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := docqa.Retry(context.Background(), delays, func(context.Context) (int, error) {
			calls++
			return 0, docqa.Errorf(docqa.EINVALID, "bad batch")
		}, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not retry missing resources", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := docqa.Retry(context.Background(), delays, func(context.Context) (int, error) {
			calls++
			return 0, docqa.Errorf(docqa.ENOTFOUND, "page gone")
		}, nil)

		assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := docqa.Retry(ctx, []time.Duration{time.Hour}, func(context.Context) (int, error) {
			calls++
			cancel()
			return 0, errors.New("fail")
		}, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
