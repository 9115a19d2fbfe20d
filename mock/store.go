package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of docqa.VectorStore.
type VectorStore struct {
	EnsureCollectionFn func(ctx context.Context, dimension int) error
	ExistsForURLFn     func(ctx context.Context, url string) (bool, error)
	UpsertFn           func(ctx context.Context, points []docqa.Point) error
	SearchFn           func(ctx context.Context, vector []float32, opts docqa.SearchOptions) ([]docqa.QueryResult, error)
	InfoFn             func(ctx context.Context) (*docqa.CollectionInfo, error)
}

func (s *VectorStore) EnsureCollection(ctx context.Context, dimension int) error {
	return s.EnsureCollectionFn(ctx, dimension)
}

func (s *VectorStore) ExistsForURL(ctx context.Context, url string) (bool, error) {
	return s.ExistsForURLFn(ctx, url)
}

func (s *VectorStore) Upsert(ctx context.Context, points []docqa.Point) error {
	return s.UpsertFn(ctx, points)
}

func (s *VectorStore) Search(ctx context.Context, vector []float32, opts docqa.SearchOptions) ([]docqa.QueryResult, error) {
	return s.SearchFn(ctx, vector, opts)
}

func (s *VectorStore) Info(ctx context.Context) (*docqa.CollectionInfo, error) {
	return s.InfoFn(ctx)
}
