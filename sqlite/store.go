package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/bloom"
)

// Bloom filter sizing for the URL negative cache.
const (
	minFilterCapacity = 10000
	filterFPRate      = 0.01
)

// Ensure VectorStore implements docqa.VectorStore at compile time.
var _ docqa.VectorStore = (*VectorStore)(nil)

// VectorStore implements docqa.VectorStore on SQLite. Search is a
// brute-force cosine scan over the collection.
type VectorStore struct {
	db         *DB
	collection string

	mu     sync.Mutex
	filter *bloom.Filter // nil until first loaded
}

// NewVectorStore creates a new VectorStore for collection.
func NewVectorStore(db *DB, collection string) *VectorStore {
	return &VectorStore{db: db, collection: collection}
}

// EnsureCollection creates the collection if it does not exist.
func (s *VectorStore) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return docqa.Errorf(docqa.EINVALID, "dimension must be positive")
	}

	existing, err := s.dimension(ctx)
	if err == nil {
		if existing != dimension {
			return docqa.Errorf(docqa.ECONFLICT, "collection %q has dimension %d, want %d", s.collection, existing, dimension)
		}
		return nil
	}
	if docqa.ErrorCode(err) != docqa.ENOTFOUND {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (name, dimension, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, s.collection, dimension, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// dimension returns the collection dimension or ENOTFOUND.
func (s *VectorStore) dimension(ctx context.Context) (int, error) {
	var dim int
	err := s.db.QueryRowContext(ctx, `SELECT dimension FROM collections WHERE name = ?`, s.collection).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, docqa.Errorf(docqa.ENOTFOUND, "collection %q not found", s.collection)
	}
	return dim, err
}

// ExistsForURL reports whether any point carries url. An empty collection
// and a Bloom filter miss both answer without touching the points index.
func (s *VectorStore) ExistsForURL(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nonEmpty int
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM points WHERE collection = ?)`, s.collection,
	).Scan(&nonEmpty); err != nil {
		return false, err
	}
	if nonEmpty == 0 {
		return false, nil
	}

	if err := s.loadFilter(ctx); err != nil {
		return false, err
	}
	if !s.filter.Test(url) {
		return false, nil
	}

	var found int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM points WHERE collection = ? AND url_hash = ? AND url = ?)
	`, s.collection, hashURL(url), url).Scan(&found)
	if err != nil {
		return false, err
	}
	return found == 1, nil
}

// loadFilter builds the URL filter from stored points. Callers hold s.mu.
func (s *VectorStore) loadFilter(ctx context.Context) error {
	if s.filter != nil {
		return nil
	}

	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT url) FROM points WHERE collection = ?`, s.collection,
	).Scan(&n); err != nil {
		return err
	}

	filter := bloom.NewFilter(uint(max(2*n, minFilterCapacity)), filterFPRate)
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT url FROM points WHERE collection = ?`, s.collection)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return err
		}
		filter.Add(url)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.filter = filter
	return nil
}

// Upsert writes points in one transaction, replacing rows with the same ID.
func (s *VectorStore) Upsert(ctx context.Context, points []docqa.Point) error {
	if len(points) == 0 {
		return nil
	}

	dim, err := s.dimension(ctx)
	if err != nil {
		return err
	}
	for i := range points {
		if err := points[i].Validate(); err != nil {
			return err
		}
		if len(points[i].Vector) != dim {
			return docqa.Errorf(docqa.EINVALID, "point %s has dimension %d, want %d", points[i].ID, len(points[i].Vector), dim)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (id, collection, url, url_hash, chunk_index, page_title, text, token_count, created_at, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			collection = excluded.collection,
			url = excluded.url,
			url_hash = excluded.url_hash,
			chunk_index = excluded.chunk_index,
			page_title = excluded.page_title,
			text = excluded.text,
			token_count = excluded.token_count,
			created_at = excluded.created_at,
			vector = excluded.vector
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx,
			p.ID, s.collection, p.Payload.URL, hashURL(p.Payload.URL), p.Payload.ChunkIndex,
			p.Payload.PageTitle, p.Payload.Text, p.Payload.TokenCount,
			p.Payload.CreatedAt.UTC().Format(time.RFC3339Nano), encodeVector(p.Vector),
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if s.filter != nil {
		for _, p := range points {
			s.filter.Add(p.Payload.URL)
		}
		// Rebuilt with a larger capacity on the next lookup.
		if s.filter.Saturated() {
			s.filter = nil
		}
	}
	return nil
}

// Search scores every point in the collection and returns the best
// opts.Limit results scoring at least opts.MinScore. The query vector must
// match the collection dimension.
func (s *VectorStore) Search(ctx context.Context, vector []float32, opts docqa.SearchOptions) ([]docqa.QueryResult, error) {
	if opts.Limit <= 0 {
		return nil, docqa.Errorf(docqa.EINVALID, "search limit must be positive")
	}
	dim, err := s.dimension(ctx)
	if err != nil {
		return nil, err
	}
	if len(vector) != dim {
		return nil, docqa.Errorf(docqa.EINVALID, "query vector has %d dimensions, collection %q has %d", len(vector), s.collection, dim)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, chunk_index, page_title, text, token_count, created_at, vector
		FROM points
		WHERE collection = ?
		ORDER BY rowid
	`, s.collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []docqa.QueryResult
	for rows.Next() {
		var (
			p         docqa.Payload
			createdAt string
			blob      []byte
		)
		if err := rows.Scan(&p.URL, &p.ChunkIndex, &p.PageTitle, &p.Text, &p.TokenCount, &createdAt, &blob); err != nil {
			return nil, err
		}
		v, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		score := cosine(vector, v)
		if score < opts.MinScore {
			continue
		}
		if p.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		results = append(results, docqa.QueryResult{Score: score, Payload: p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results = docqa.RankResults(results)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// Info returns collection statistics.
func (s *VectorStore) Info(ctx context.Context) (*docqa.CollectionInfo, error) {
	dim, err := s.dimension(ctx)
	if err != nil {
		return nil, err
	}

	info := &docqa.CollectionInfo{Name: s.collection, Dimension: dim}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT url) FROM points WHERE collection = ?`, s.collection,
	).Scan(&info.Points, &info.URLs); err != nil {
		return nil, err
	}
	return info, nil
}
