package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docqa/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor returns how long a single Wait call blocked.
func waitFor(t *testing.T, l *ingest.DomainLimiter, host string) time.Duration {
	t.Helper()
	begin := time.Now()
	require.NoError(t, l.Wait(context.Background(), host))
	return time.Since(begin)
}

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("spaces requests to one host", func(t *testing.T) {
		t.Parallel()

		l := ingest.NewDomainLimiter(10)

		assert.Less(t, waitFor(t, l, "docs.example.com"), 50*time.Millisecond)
		assert.GreaterOrEqual(t, waitFor(t, l, "docs.example.com"), 80*time.Millisecond)
	})

	t.Run("hosts do not share a budget", func(t *testing.T) {
		t.Parallel()

		l := ingest.NewDomainLimiter(10)
		waitFor(t, l, "docs.example.com")

		assert.Less(t, waitFor(t, l, "api.example.com"), 50*time.Millisecond)
	})

	t.Run("gives up when the context expires", func(t *testing.T) {
		t.Parallel()

		l := ingest.NewDomainLimiter(1)
		waitFor(t, l, "docs.example.com")

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "docs.example.com"))
	})

	t.Run("zero rate only checks the context", func(t *testing.T) {
		t.Parallel()

		l := ingest.NewDomainLimiter(0)
		for range 5 {
			assert.Less(t, waitFor(t, l, "docs.example.com"), 50*time.Millisecond)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, l.Wait(ctx, "docs.example.com"), context.Canceled)
	})

	t.Run("admits concurrent callers", func(t *testing.T) {
		t.Parallel()

		l := ingest.NewDomainLimiter(100)
		errs := make(chan error, 5)
		var wg sync.WaitGroup
		for range 5 {
			wg.Go(func() { errs <- l.Wait(context.Background(), "docs.example.com") })
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
	})
}
