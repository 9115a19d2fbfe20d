package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

// Ensure LoggingVectorStore implements docqa.VectorStore.
var _ docqa.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with logging.
type LoggingVectorStore struct {
	next   docqa.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next docqa.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

// EnsureCollection delegates to the wrapped store.
func (s *LoggingVectorStore) EnsureCollection(ctx context.Context, dimension int) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("ensure collection",
			"dimension", dimension,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.EnsureCollection(ctx, dimension)
}

// ExistsForURL delegates to the wrapped store.
func (s *LoggingVectorStore) ExistsForURL(ctx context.Context, url string) (exists bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("exists for url",
			"url", url,
			"exists", exists,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ExistsForURL(ctx, url)
}

// Upsert delegates to the wrapped store.
func (s *LoggingVectorStore) Upsert(ctx context.Context, points []docqa.Point) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert",
			"points", len(points),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upsert(ctx, points)
}

// Search delegates to the wrapped store.
func (s *LoggingVectorStore) Search(ctx context.Context, vector []float32, opts docqa.SearchOptions) (results []docqa.QueryResult, err error) {
	defer func(begin time.Time) {
		var top float32
		if len(results) > 0 {
			top = results[0].Score
		}
		s.logger.Info("search",
			"limit", opts.Limit,
			"min_score", opts.MinScore,
			"results", len(results),
			"top_score", top,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, vector, opts)
}

// Info delegates to the wrapped store.
func (s *LoggingVectorStore) Info(ctx context.Context) (info *docqa.CollectionInfo, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("collection info",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Info(ctx)
}
