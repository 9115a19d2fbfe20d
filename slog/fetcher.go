package slog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

var _ docqa.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs one "fetch" entry per page. Successful fetches log at
// Info; failures log at Warn with an outcome naming the error code, or
// "canceled" when the context ended the fetch.
type LoggingFetcher struct {
	next   docqa.Fetcher
	logger *slog.Logger
}

func NewLoggingFetcher(next docqa.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "bytes", len(html), "duration", time.Since(begin), "outcome", fetchOutcome(err)}
		if err != nil {
			f.logger.Warn("fetch", append(attrs, "err", err)...)
			return
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// fetchOutcome classifies a fetch result for logging.
func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return docqa.ErrorCode(err)
	}
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
