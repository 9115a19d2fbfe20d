package ingest

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/docqa"
)

var _ docqa.ContentExtractor = (*PageExtractor)(nil)

// PageExtractor fetches a page and extracts its title and text.
type PageExtractor struct {
	Fetcher   docqa.Fetcher
	Extractor docqa.Extractor

	// Limiter is optional.
	Limiter docqa.DomainLimiter

	// RetryDelays between fetch attempts. Nil fetches once.
	RetryDelays []time.Duration

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Extract returns the page document. Any failure is logged and yields a
// document with empty title and text.
func (e *PageExtractor) Extract(ctx context.Context, rawURL string) *docqa.Document {
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	empty := &docqa.Document{URL: rawURL}

	if e.Limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			log.Warn("invalid url", "url", rawURL, "err", err)
			return empty
		}
		if err := e.Limiter.Wait(ctx, u.Host); err != nil {
			log.Warn("rate limit wait", "url", rawURL, "err", err)
			return empty
		}
	}

	html, err := docqa.Retry(ctx, e.RetryDelays, func(ctx context.Context) (string, error) {
		return e.Fetcher.Fetch(ctx, rawURL)
	}, func(attempt int, err error) {
		log.Warn("fetch retry", "url", rawURL, "attempt", attempt, "err", err)
	})
	if err != nil {
		log.Warn("fetch failed", "url", rawURL, "err", err)
		return empty
	}

	result, err := e.Extractor.Extract(html)
	if err != nil {
		log.Warn("extract failed", "url", rawURL, "err", err)
		return empty
	}

	return &docqa.Document{URL: rawURL, Title: result.Title, Text: result.Text}
}
