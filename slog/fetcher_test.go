package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/mock"
	dqslog "github.com/fwojciec/docqa/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		err     error
		wantLog []string
	}{
		{
			name:    "page",
			html:    "<main>Install</main>",
			wantLog: []string{"level=INFO", "msg=fetch", "url=https://example.com/guide", "bytes=20", "duration=", "outcome=ok"},
		},
		{
			name:    "upstream failure",
			err:     docqa.Errorf(docqa.EUNAVAILABLE, "status 503"),
			wantLog: []string{"level=WARN", "msg=fetch", "bytes=0", "outcome=unavailable", "message=status 503"},
		},
		{
			name:    "missing page",
			err:     docqa.Errorf(docqa.ENOTFOUND, "HTTP 404"),
			wantLog: []string{"level=WARN", "outcome=not_found"},
		},
		{
			name:    "canceled",
			err:     context.Canceled,
			wantLog: []string{"level=WARN", "outcome=canceled", "err=\"context canceled\""},
		},
		{
			name:    "unclassified failure",
			err:     errors.New("connection reset"),
			wantLog: []string{"level=WARN", "outcome=internal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			f := dqslog.NewLoggingFetcher(&mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return tt.html, tt.err
				},
			}, newDebugLogger(&buf))

			html, err := f.Fetch(context.Background(), "https://example.com/guide")

			assert.Equal(t, tt.html, html)
			assert.Equal(t, tt.err, err)
			for _, want := range tt.wantLog {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("browser already gone")
	calls := 0
	f := dqslog.NewLoggingFetcher(&mock.Fetcher{
		CloseFn: func() error {
			calls++
			return closeErr
		},
	}, newDebugLogger(&bytes.Buffer{}))

	err := f.Close()

	require.ErrorIs(t, err, closeErr)
	assert.Equal(t, 1, calls)
}
