package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/ingest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Sitemaps docqa.SitemapService
	Store    docqa.VectorStore
	Ingester *ingest.Ingester
	Asker    docqa.Asker
	Handler  http.Handler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals `embed:""`

	Ingest  IngestCmd  `cmd:"" help:"Crawl a sitemap and index every page"`
	Sitemap SitemapCmd `cmd:"" help:"List the URLs an ingest run would visit"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about the indexed documentation"`
	Serve   ServeCmd   `cmd:"" help:"Run the query API server"`
	Stats   StatsCmd   `cmd:"" help:"Show collection statistics"`
}

// Globals are flags shared by every command.
type Globals struct {
	Config kong.ConfigFlag `help:"Path to a TOML configuration file"`

	Collection   string `default:"docs" env:"DOCQA_COLLECTION" help:"Vector collection name"`
	Store        string `default:"sqlite" enum:"sqlite,qdrant" env:"DOCQA_STORE" help:"Vector store backend (${enum})"`
	DB           string `name:"db" env:"DOCQA_DB" help:"SQLite database path (default ~/.docqa/docqa.db)"`
	QdrantURL    string `name:"qdrant-url" env:"DOCQA_QDRANT_URL" help:"Qdrant URL"`
	QdrantAPIKey string `name:"qdrant-api-key" env:"QDRANT_API_KEY" help:"Qdrant API key"`

	Provider        string `default:"gemini" enum:"gemini,openai" env:"DOCQA_PROVIDER" help:"Model provider (${enum})"`
	GeminiAPIKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	OpenAIAPIKey    string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIBaseURL   string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible API base URL"`
	EmbeddingModel  string `name:"embedding-model" env:"DOCQA_EMBEDDING_MODEL" help:"Embedding model (provider default when empty)"`
	GenerationModel string `name:"generation-model" env:"DOCQA_GENERATION_MODEL" help:"Generation model (provider default when empty)"`
	Dimension       int    `default:"768" env:"DOCQA_DIMENSION" help:"Embedding dimension"`

	LogLevel string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"DOCQA_LOG_LEVEL" help:"Log level (${enum})"`
}

// SourceFlags select the sitemap and which of its URLs to visit.
type SourceFlags struct {
	SitemapURL string   `name:"sitemap-url" env:"DOCQA_SITEMAP_URL" required:"" help:"Sitemap URL"`
	Include    []string `short:"i" help:"Only visit URLs matching regex (repeatable)"`
	Exclude    []string `short:"x" help:"Skip URLs matching regex (repeatable)"`
}

// RetrievalFlags tune the query path.
type RetrievalFlags struct {
	TopK     int     `name:"top-k" default:"5" env:"DOCQA_TOP_K" help:"Passages retrieved per question"`
	MinScore float32 `name:"min-score" default:"0.3" env:"DOCQA_MIN_SCORE" help:"Similarity floor"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	SourceFlags `embed:""`

	ChunkMin     int           `name:"chunk-min" default:"300" help:"Minimum tokens per chunk"`
	ChunkMax     int           `name:"chunk-max" default:"500" help:"Maximum tokens per chunk"`
	ChunkOverlap int           `name:"chunk-overlap" default:"30" help:"Tokens shared by consecutive chunks"`
	BatchSize    int           `name:"batch-size" default:"96" help:"Texts per embedding call"`
	Extractor    string        `default:"goquery" enum:"goquery,trafilatura,readability" env:"DOCQA_EXTRACTOR" help:"Content extractor (${enum})"`
	Browser      bool          `env:"DOCQA_BROWSER" help:"Render pages in headless Chrome"`
	FetchTimeout time.Duration `name:"fetch-timeout" default:"30s" help:"Per-page fetch timeout"`
	RateLimit    float64       `name:"rate-limit" default:"2" help:"Requests per second per domain (0 disables)"`
}

// SitemapCmd is the "sitemap" subcommand.
type SitemapCmd struct {
	SourceFlags `embed:""`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	RetrievalFlags `embed:""`

	Question string `arg:"" help:"Question to ask about the documentation"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	RetrievalFlags `embed:""`

	Addr            string        `default:":8000" env:"DOCQA_ADDR" help:"Listen address"`
	CORSOrigins     []string      `name:"cors-origins" default:"http://localhost:3000" env:"DOCQA_CORS_ORIGINS" help:"Allowed CORS origins"`
	QueryTimeout    time.Duration `name:"query-timeout" default:"30s" help:"Per-request deadline for the query path"`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" default:"10s" help:"Grace period for in-flight requests on shutdown"`
	LogJSON         bool          `name:"log-json" help:"Write logs as JSON"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// Config collects the resolved settings for the selected command.
func (c *CLI) Config(command string) docqa.Config {
	cfg := docqa.DefaultConfig()
	cfg.Collection = c.Collection
	cfg.Store = c.Store
	cfg.DBPath = c.DB
	cfg.QdrantURL = c.QdrantURL
	cfg.QdrantAPIKey = c.QdrantAPIKey
	cfg.Provider = c.Provider
	cfg.EmbeddingModel = c.EmbeddingModel
	cfg.GenerationModel = c.GenerationModel
	cfg.Dimension = c.Dimension

	switch command {
	case "ingest":
		cfg.SitemapURL = c.Ingest.SitemapURL
		cfg.Chunk = docqa.ChunkOptions{Min: c.Ingest.ChunkMin, Max: c.Ingest.ChunkMax, Overlap: c.Ingest.ChunkOverlap}
		cfg.BatchSize = c.Ingest.BatchSize
		cfg.Extractor = c.Ingest.Extractor
		cfg.Browser = c.Ingest.Browser
		cfg.FetchTimeout = c.Ingest.FetchTimeout
		cfg.RateLimit = c.Ingest.RateLimit
	case "sitemap":
		cfg.SitemapURL = c.Sitemap.SitemapURL
	case "ask":
		cfg.TopK = c.Ask.TopK
		cfg.MinScore = c.Ask.MinScore
	case "serve":
		cfg.TopK = c.Serve.TopK
		cfg.MinScore = c.Serve.MinScore
	}
	return cfg
}
