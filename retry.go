package docqa

import (
	"context"
	"time"
)

// Default retry parameters for remote embedding and storage calls.
const (
	DefaultRetryAttempts     = 3
	DefaultRetryInitialDelay = 2 * time.Second
	DefaultRetryMaxDelay     = 10 * time.Second
)

// RetryFunc is called before each retry with the 1-based number of the
// attempt about to run and the error of the previous one.
type RetryFunc func(attempt int, err error)

// BackoffDelays returns the waits between attempts for an exponential
// backoff that starts at initial, doubles, and is capped at max.
// A policy of n attempts has n-1 delays.
func BackoffDelays(attempts int, initial, max time.Duration) []time.Duration {
	if attempts <= 1 {
		return nil
	}
	delays := make([]time.Duration, attempts-1)
	d := initial
	for i := range delays {
		delays[i] = min(d, max)
		d *= 2
	}
	return delays
}

// DefaultRetryDelays returns the backoff delays for three attempts: 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return BackoffDelays(DefaultRetryAttempts, DefaultRetryInitialDelay, DefaultRetryMaxDelay)
}

// Retry calls fn until it succeeds, the delays are exhausted or ctx is done.
// EINVALID and ENOTFOUND errors are returned immediately. The last error is
// returned on exhaustion.
func Retry[T any](ctx context.Context, delays []time.Duration, fn func(context.Context) (T, error), onRetry RetryFunc) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if permanent(err) || attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func permanent(err error) bool {
	switch ErrorCode(err) {
	case EINVALID, ENOTFOUND:
		return true
	}
	return false
}
