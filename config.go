package docqa

import "time"

// Defaults for the query path and the services it talks to.
const (
	DefaultTopK         = 5
	DefaultMinScore     = 0.3
	DefaultCollection   = "docs"
	DefaultDimension    = 768
	DefaultFetchTimeout = 30 * time.Second
	DefaultRateLimit    = 2.0
	DefaultAddr         = ":8000"
	DefaultCORSOrigin   = "http://localhost:3000"
)

// Vector store backends.
const (
	StoreSQLite = "sqlite"
	StoreQdrant = "qdrant"
)

// Model providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Content extractors.
const (
	ExtractorGoquery     = "goquery"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Config holds the resolved settings shared by ingestion and querying.
type Config struct {
	SitemapURL string
	Collection string

	Store        string
	DBPath       string
	QdrantURL    string
	QdrantAPIKey string

	Provider        string
	EmbeddingModel  string
	GenerationModel string
	Dimension       int
	BatchSize       int

	Chunk ChunkOptions

	TopK     int
	MinScore float32

	Extractor    string
	Browser      bool
	FetchTimeout time.Duration
	RateLimit    float64
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		Collection:   DefaultCollection,
		Store:        StoreSQLite,
		Provider:     ProviderGemini,
		Dimension:    DefaultDimension,
		BatchSize:    DefaultBatchSize,
		Chunk:        DefaultChunkOptions(),
		TopK:         DefaultTopK,
		MinScore:     DefaultMinScore,
		Extractor:    ExtractorGoquery,
		FetchTimeout: DefaultFetchTimeout,
		RateLimit:    DefaultRateLimit,
	}
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	if c.Collection == "" {
		return Errorf(EINVALID, "collection name required")
	}
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return Errorf(EINVALID, "sqlite store requires a database path")
		}
	case StoreQdrant:
		if c.QdrantURL == "" {
			return Errorf(EINVALID, "qdrant store requires a URL")
		}
	default:
		return Errorf(EINVALID, "unknown store %q", c.Store)
	}
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return Errorf(EINVALID, "unknown provider %q", c.Provider)
	}
	switch c.Extractor {
	case ExtractorGoquery, ExtractorTrafilatura, ExtractorReadability:
	default:
		return Errorf(EINVALID, "unknown extractor %q", c.Extractor)
	}
	if c.Dimension <= 0 {
		return Errorf(EINVALID, "dimension must be positive")
	}
	if c.BatchSize <= 0 {
		return Errorf(EINVALID, "batch size must be positive")
	}
	if err := c.Chunk.Validate(); err != nil {
		return err
	}
	if c.TopK <= 0 {
		return Errorf(EINVALID, "top-k must be positive")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return Errorf(EINVALID, "min score must be within [0, 1]")
	}
	return nil
}
