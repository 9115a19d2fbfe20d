package qdrant

import (
	"context"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/qdrant/go-client/qdrant"
)

// Payload keys.
const (
	keyText       = "text"
	keyURL        = "url"
	keyChunkIndex = "chunk_index"
	keyPageTitle  = "page_title"
	keyTokenCount = "token_count"
	keyCreatedAt  = "created_at"
)

// scrollPageSize bounds each page when walking the whole collection.
const scrollPageSize = 256

// Client is the subset of *qdrant.Client used by VectorStore.
type Client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Scroll(ctx context.Context, request *qdrant.ScrollPoints) ([]*qdrant.RetrievedPoint, error)
	ScrollAndOffset(ctx context.Context, request *qdrant.ScrollPoints) ([]*qdrant.RetrievedPoint, *qdrant.PointId, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
}

var _ Client = (*qdrant.Client)(nil)

// Ensure VectorStore implements docqa.VectorStore at compile time.
var _ docqa.VectorStore = (*VectorStore)(nil)

// VectorStore stores points in a single Qdrant collection.
type VectorStore struct {
	client     Client
	collection string
}

// NewVectorStore creates a new VectorStore for collection.
func NewVectorStore(client Client, collection string) *VectorStore {
	return &VectorStore{client: client, collection: collection}
}

// EnsureCollection creates the collection with cosine distance and a
// keyword index on url if it does not exist.
func (s *VectorStore) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return docqa.Errorf(docqa.EINVALID, "dimension must be positive")
	}

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}
	if exists {
		info, err := s.client.GetCollectionInfo(ctx, s.collection)
		if err != nil {
			return err
		}
		if size := vectorSize(info); size != dimension {
			return docqa.Errorf(docqa.ECONFLICT, "collection %q has dimension %d, want %d", s.collection, size, dimension)
		}
		return nil
	}

	if err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return err
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		FieldName:      keyURL,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	return err
}

// ExistsForURL reports whether any point carries url. An empty collection
// answers without a filtered scroll.
func (s *VectorStore) ExistsForURL(ctx context.Context, url string) (bool, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return false, err
	}
	if info.GetPointsCount() == 0 {
		return false, nil
	}

	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Filter:         &qdrant.Filter{Must: []*qdrant.Condition{qdrant.NewMatch(keyURL, url)}},
		Limit:          qdrant.PtrOf(uint32(1)),
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return false, err
	}
	return len(points) > 0, nil
}

// Upsert writes points and waits for them to be applied.
func (s *VectorStore) Upsert(ctx context.Context, points []docqa.Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, len(points))
	for i := range points {
		p := &points[i]
		if err := p.Validate(); err != nil {
			return err
		}
		structs[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectorsDense(p.Vector),
			Payload: EncodePayload(p.Payload),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	return err
}

// Search returns the nearest points scoring at least opts.MinScore.
// Points whose payload does not decode are skipped.
func (s *VectorStore) Search(ctx context.Context, vector []float32, opts docqa.SearchOptions) ([]docqa.QueryResult, error) {
	if opts.Limit <= 0 {
		return nil, docqa.Errorf(docqa.EINVALID, "search limit must be positive")
	}

	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQueryDense(vector),
		Limit:          qdrant.PtrOf(uint64(opts.Limit)),
		ScoreThreshold: qdrant.PtrOf(opts.MinScore),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	results := make([]docqa.QueryResult, 0, len(hits))
	for _, hit := range hits {
		if hit.GetScore() < opts.MinScore {
			continue
		}
		payload, err := DecodePayload(hit.GetPayload())
		if err != nil {
			continue
		}
		results = append(results, docqa.QueryResult{Score: hit.GetScore(), Payload: *payload})
	}
	return docqa.RankResults(results), nil
}

// Info returns collection statistics. Distinct URLs are counted by
// scrolling the url field of every point.
func (s *VectorStore) Info(ctx context.Context) (*docqa.CollectionInfo, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, docqa.Errorf(docqa.ENOTFOUND, "collection %q not found", s.collection)
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]struct{})
	var offset *qdrant.PointId
	for {
		points, next, err := s.client.ScrollAndOffset(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Offset:         offset,
			Limit:          qdrant.PtrOf(uint32(scrollPageSize)),
			WithPayload:    qdrant.NewWithPayloadInclude(keyURL),
		})
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			urls[p.GetPayload()[keyURL].GetStringValue()] = struct{}{}
		}
		if next == nil || len(points) == 0 {
			break
		}
		offset = next
	}

	return &docqa.CollectionInfo{
		Name:      s.collection,
		Dimension: vectorSize(info),
		Points:    int(info.GetPointsCount()),
		URLs:      len(urls),
	}, nil
}

func vectorSize(info *qdrant.CollectionInfo) int {
	return int(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize())
}

// EncodePayload converts a payload to Qdrant values.
func EncodePayload(p docqa.Payload) map[string]*qdrant.Value {
	return map[string]*qdrant.Value{
		keyText:       qdrant.NewValueString(p.Text),
		keyURL:        qdrant.NewValueString(p.URL),
		keyChunkIndex: qdrant.NewValueInt(int64(p.ChunkIndex)),
		keyPageTitle:  qdrant.NewValueString(p.PageTitle),
		keyTokenCount: qdrant.NewValueInt(int64(p.TokenCount)),
		keyCreatedAt:  qdrant.NewValueString(p.CreatedAt.UTC().Format(time.RFC3339Nano)),
	}
}

// DecodePayload converts Qdrant values to a validated payload.
func DecodePayload(m map[string]*qdrant.Value) (*docqa.Payload, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, m[keyCreatedAt].GetStringValue())
	if err != nil {
		return nil, docqa.Errorf(docqa.EINVALID, "payload created_at: %v", err)
	}
	p := &docqa.Payload{
		Text:       m[keyText].GetStringValue(),
		URL:        m[keyURL].GetStringValue(),
		ChunkIndex: int(m[keyChunkIndex].GetIntegerValue()),
		PageTitle:  m[keyPageTitle].GetStringValue(),
		TokenCount: int(m[keyTokenCount].GetIntegerValue()),
		CreatedAt:  createdAt,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
