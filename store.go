package docqa

import (
	"cmp"
	"context"
	"log/slog"
	"net/url"
	"slices"
	"time"
)

// Payload is the metadata persisted with every vector. The field set is
// fixed; stores reject anything that does not validate.
type Payload struct {
	Text       string    `json:"text"`
	URL        string    `json:"url"`
	ChunkIndex int       `json:"chunk_index"`
	PageTitle  string    `json:"page_title"`
	TokenCount int       `json:"token_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate returns an error if the payload contains invalid fields.
func (p *Payload) Validate() error {
	if p.Text == "" {
		return Errorf(EINVALID, "payload text required")
	}
	u, err := url.Parse(p.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "payload url must be an absolute http(s) URL: %q", p.URL)
	}
	if p.ChunkIndex < 0 {
		return Errorf(EINVALID, "payload chunk index must not be negative")
	}
	if p.TokenCount <= 0 {
		return Errorf(EINVALID, "payload token count must be positive")
	}
	if p.CreatedAt.IsZero() {
		return Errorf(EINVALID, "payload created_at required")
	}
	return nil
}

// Point is the unit stored in the vector index. IDs are fresh UUIDs per
// ingestion pass.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// Validate returns an error if the point contains invalid fields.
func (p *Point) Validate() error {
	if p.ID == "" {
		return Errorf(EINVALID, "point ID required")
	}
	if len(p.Vector) == 0 {
		return Errorf(EINVALID, "point vector required")
	}
	return p.Payload.Validate()
}

// QueryResult is one search hit.
type QueryResult struct {
	Score   float32 `json:"score"`
	Payload Payload `json:"payload"`

	// Rank is 1-based and dense.
	Rank int `json:"rank"`
}

// SearchOptions configures similarity search.
type SearchOptions struct {
	// Maximum number of results to return.
	Limit int `json:"limit"`

	// Results scoring below MinScore are excluded.
	MinScore float32 `json:"minScore"`
}

// CollectionInfo describes a vector collection.
type CollectionInfo struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Points    int    `json:"points"`
	URLs      int    `json:"urls"`
}

// VectorStore persists points and performs similarity search.
type VectorStore interface {
	// EnsureCollection creates the collection with a cosine metric if it
	// does not exist. An existing collection with a different dimension
	// returns ECONFLICT.
	EnsureCollection(ctx context.Context, dimension int) error

	// ExistsForURL reports whether any point carries the URL.
	ExistsForURL(ctx context.Context, url string) (bool, error)

	// Upsert writes points, overwriting any with the same ID.
	// An empty batch is a no-op.
	Upsert(ctx context.Context, points []Point) error

	// Search returns the nearest points to vector ordered by descending score.
	Search(ctx context.Context, vector []float32, opts SearchOptions) ([]QueryResult, error)

	// Info returns collection statistics.
	// Returns ENOTFOUND if the collection does not exist.
	Info(ctx context.Context) (*CollectionInfo, error)
}

// RankResults sorts results by descending score, keeping the order of
// equal scores, and assigns dense 1-based ranks.
func RankResults(results []QueryResult) []QueryResult {
	slices.SortStableFunc(results, func(a, b QueryResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// Ensure RetryingStore implements VectorStore at compile time.
var _ VectorStore = (*RetryingStore)(nil)

// RetryingStore retries Upsert with backoff. Other calls pass through.
type RetryingStore struct {
	VectorStore

	// Delays between attempts. Defaults to DefaultRetryDelays when nil.
	Delays []time.Duration

	// Logger receives retry notices. Optional.
	Logger *slog.Logger
}

// Upsert writes points with retry.
func (s *RetryingStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	delays := s.Delays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	_, err := Retry(ctx, delays, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.VectorStore.Upsert(ctx, points)
	}, func(attempt int, err error) {
		if s.Logger != nil {
			s.Logger.Warn("upsert retry", "points", len(points), "attempt", attempt, "err", err)
		}
	})
	return err
}
