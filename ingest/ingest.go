// Package ingest turns a documentation sitemap into stored vectors. Pages
// are processed one at a time: extract, chunk, embed, upsert.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/google/uuid"
)

// Status is the result of ingesting one URL.
type Status string

// URL outcomes.
const (
	StatusSucceeded        Status = "succeeded"
	StatusSkippedIngested  Status = "skipped_ingested"
	StatusSkippedNoContent Status = "skipped_no_content"
	StatusSkippedNoChunks  Status = "skipped_no_chunks"
	StatusFailed           Status = "failed"
)

// Skipped reports whether s is one of the skip outcomes.
func (s Status) Skipped() bool {
	switch s {
	case StatusSkippedIngested, StatusSkippedNoContent, StatusSkippedNoChunks:
		return true
	}
	return false
}

// Outcome describes what happened to one URL.
type Outcome struct {
	URL        string
	Status     Status
	Chunks     int
	Embeddings int
	Err        error
}

// Summary aggregates outcomes of a run.
type Summary struct {
	Total      int
	Processed  int
	Skipped    int
	Failed     int
	Chunks     int
	Embeddings int
	Duration   time.Duration
}

// Add folds o into the summary.
func (s *Summary) Add(o Outcome) {
	switch {
	case o.Status == StatusSucceeded:
		s.Processed++
	case o.Status.Skipped():
		s.Skipped++
	default:
		s.Failed++
	}
	s.Chunks += o.Chunks
	s.Embeddings += o.Embeddings
}

// ProgressEvent reports the outcome of one URL during a run.
type ProgressEvent struct {
	// Index is 1-based.
	Index   int
	Total   int
	Outcome Outcome
}

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Ingester orchestrates ingestion of a documentation site.
type Ingester struct {
	Sitemaps  docqa.SitemapService
	Extractor docqa.ContentExtractor
	Chunker   *docqa.Chunker
	Embedder  docqa.Embedder
	Store     docqa.VectorStore

	// Dimension of the collection created before the first URL.
	Dimension int

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

func (in *Ingester) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}

func (in *Ingester) now() time.Time {
	if in.Now != nil {
		return in.Now()
	}
	return time.Now()
}

func (in *Ingester) newID() string {
	if in.NewID != nil {
		return in.NewID()
	}
	return uuid.NewString()
}

// Run lists the sitemap, ensures the collection exists and ingests every
// URL in sitemap order. Sitemap and collection errors abort the run; per-URL
// failures are counted and the run continues. A canceled ctx stops the run
// between URLs and returns the partial summary with the context error.
func (in *Ingester) Run(ctx context.Context, sitemapURL string, filter *docqa.URLFilter, progress ProgressFunc) (*Summary, error) {
	start := in.now()
	log := in.logger()

	urls, err := in.Sitemaps.ListURLs(ctx, sitemapURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap: %w", err)
	}

	if err := in.Store.EnsureCollection(ctx, in.Dimension); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	summary := &Summary{Total: len(urls)}
	log.Info("ingest started", "urls", len(urls), "sitemap", sitemapURL)

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			summary.Duration = in.now().Sub(start)
			return summary, err
		}

		log.Info("processing", "index", i+1, "total", len(urls), "url", url)
		outcome := in.IngestURL(ctx, url)
		summary.Add(outcome)

		if progress != nil {
			progress(ProgressEvent{Index: i + 1, Total: len(urls), Outcome: outcome})
		}
	}

	summary.Duration = in.now().Sub(start)
	log.Info("ingest complete",
		"total", summary.Total,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"chunks", summary.Chunks,
		"embeddings", summary.Embeddings,
		"duration", summary.Duration,
	)
	return summary, nil
}

// IngestURL runs the pipeline for a single URL. It never returns an error;
// failures are reported in the outcome.
func (in *Ingester) IngestURL(ctx context.Context, url string) Outcome {
	log := in.logger().With("url", url)
	out := Outcome{URL: url}

	exists, err := in.Store.ExistsForURL(ctx, url)
	if err != nil {
		log.Error("exists check failed", "err", err)
		out.Status, out.Err = StatusFailed, err
		return out
	}
	if exists {
		log.Info("skipping, already ingested")
		out.Status = StatusSkippedIngested
		return out
	}

	doc := in.Extractor.Extract(ctx, url)
	if doc.IsEmpty() {
		log.Warn("no content extracted, skipping")
		out.Status = StatusSkippedNoContent
		return out
	}

	chunks := in.Chunker.Split(doc.Text)
	if len(chunks) == 0 {
		log.Warn("no chunks created, skipping")
		out.Status = StatusSkippedNoChunks
		return out
	}
	out.Chunks = len(chunks)
	log.Info("chunked", "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := in.Embedder.Embed(ctx, texts, docqa.EmbedDocument)
	if err != nil {
		log.Error("embed failed", "err", err)
		out.Status, out.Err = StatusFailed, err
		return out
	}
	if len(vectors) != len(chunks) {
		err := docqa.Errorf(docqa.EINTERNAL, "got %d embeddings for %d chunks", len(vectors), len(chunks))
		log.Error("embed failed", "err", err)
		out.Status, out.Err = StatusFailed, err
		return out
	}
	out.Embeddings = len(vectors)

	points := make([]docqa.Point, len(chunks))
	for i, c := range chunks {
		points[i] = docqa.Point{
			ID:     in.newID(),
			Vector: vectors[i],
			Payload: docqa.Payload{
				Text:       c.Text,
				URL:        url,
				ChunkIndex: c.Index,
				PageTitle:  doc.Title,
				TokenCount: c.TokenCount,
				CreatedAt:  in.now(),
			},
		}
	}

	if err := in.Store.Upsert(ctx, points); err != nil {
		log.Error("upsert failed", "err", err)
		out.Status, out.Err = StatusFailed, err
		return out
	}

	log.Info("uploaded", "points", len(points))
	out.Status = StatusSucceeded
	return out
}
