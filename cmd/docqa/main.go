package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/chi"
	"github.com/fwojciec/docqa/gemini"
	"github.com/fwojciec/docqa/goquery"
	docqahttp "github.com/fwojciec/docqa/http"
	"github.com/fwojciec/docqa/ingest"
	"github.com/fwojciec/docqa/openai"
	"github.com/fwojciec/docqa/qdrant"
	"github.com/fwojciec/docqa/rag"
	"github.com/fwojciec/docqa/readability"
	"github.com/fwojciec/docqa/rod"
	dqslog "github.com/fwojciec/docqa/slog"
	"github.com/fwojciec/docqa/sqlite"
	"github.com/fwojciec/docqa/tiktoken"
	"github.com/fwojciec/docqa/toml"
	"github.com/fwojciec/docqa/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration files read in order; missing files are ignored.
	ConfigPaths []string

	// Database path used when no --db is given.
	DBPath string

	// Services for end-to-end testing. When set they replace the
	// implementations selected by configuration.
	Sitemaps  docqa.SitemapService
	Fetcher   docqa.Fetcher
	Store     docqa.VectorStore
	Embedder  docqa.Embedder
	Generator docqa.Generator

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{"~/.docqa/config.toml", "./docqa.toml"},
		DBPath:      defaultDBPath(),
	}
}

// Close releases every resource opened by Run, last opened first.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docqa"),
		kong.Description("Answer questions about a documentation site from its sitemap."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Configuration(toml.Loader, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docqa --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.LogLevel, command == "serve" && cli.Serve.LogJSON)

	cfg := cli.Config(command)
	if cfg.DBPath == "" {
		cfg.DBPath = m.DBPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	defer m.Close()
	if err := m.wire(ctx, command, cli, cfg, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the services the selected command needs.
func (m *Main) wire(ctx context.Context, command string, cli *CLI, cfg docqa.Config, deps *Dependencies) error {
	log := deps.Logger

	if command == "sitemap" || command == "ingest" {
		deps.Sitemaps = m.Sitemaps
		if deps.Sitemaps == nil {
			deps.Sitemaps = docqahttp.NewSitemapService(nil)
		}
		deps.Sitemaps = dqslog.NewLoggingSitemapService(deps.Sitemaps, log)
	}
	if command == "sitemap" {
		return nil
	}

	store, err := m.openStore(cfg, log)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}
	deps.Store = store
	if command == "stats" {
		return nil
	}

	embedder, generator, err := m.openProvider(ctx, cfg, cli.Globals, deps.Stderr)
	if err != nil {
		return err
	}
	batched := &docqa.BatchEmbedder{
		Embedder:  dqslog.NewLoggingEmbedder(embedder, log),
		BatchSize: cfg.BatchSize,
		Dimension: cfg.Dimension,
		Logger:    log,
	}

	switch command {
	case "ingest":
		ingester, err := m.newIngester(cfg, deps.Sitemaps, batched, store, deps.Stderr, log)
		if err != nil {
			return err
		}
		deps.Ingester = ingester
	case "ask", "serve":
		asker := rag.NewAsker(batched, store, dqslog.NewLoggingGenerator(generator, log),
			rag.WithTopK(cfg.TopK),
			rag.WithMinScore(cfg.MinScore),
			rag.WithLogger(log),
		)
		deps.Asker = asker
		if command == "serve" {
			deps.Handler = chi.NewServer(asker, store, log,
				chi.WithCORSOrigins(cli.Serve.CORSOrigins...),
				chi.WithQueryTimeout(cli.Serve.QueryTimeout),
			)
		}
	}
	return nil
}

// openStore connects to the configured vector store.
func (m *Main) openStore(cfg docqa.Config, log *slog.Logger) (docqa.VectorStore, error) {
	store := m.Store
	if store == nil {
		switch cfg.Store {
		case docqa.StoreQdrant:
			client, err := qdrant.Dial(cfg.QdrantURL, cfg.QdrantAPIKey)
			if err != nil {
				return nil, err
			}
			m.closers = append(m.closers, client.Close)
			store = qdrant.NewVectorStore(client, cfg.Collection)
		default:
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
			db := sqlite.NewDB(cfg.DBPath)
			if err := db.Open(); err != nil {
				return nil, fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
			}
			m.closers = append(m.closers, db.Close)
			store = sqlite.NewVectorStore(db, cfg.Collection)
		}
	}
	return dqslog.NewLoggingVectorStore(&docqa.RetryingStore{VectorStore: store, Logger: log}, log), nil
}

// openProvider creates the embedder and generator for the configured provider.
func (m *Main) openProvider(ctx context.Context, cfg docqa.Config, g Globals, stderr io.Writer) (docqa.Embedder, docqa.Generator, error) {
	if m.Embedder != nil && m.Generator != nil {
		return m.Embedder, m.Generator, nil
	}

	switch cfg.Provider {
	case docqa.ProviderOpenAI:
		oc := openai.Config{
			BaseURL:         g.OpenAIBaseURL,
			Token:           g.OpenAIAPIKey,
			EmbeddingModel:  cfg.EmbeddingModel,
			GenerationModel: cfg.GenerationModel,
			Dimension:       cfg.Dimension,
		}
		lce, err := openai.NewLangchainEmbedder(oc)
		if err != nil {
			return nil, nil, err
		}
		llm, err := openai.NewLangchainModel(oc)
		if err != nil {
			return nil, nil, err
		}
		return openai.NewEmbedder(lce), openai.NewGenerator(llm), nil
	default:
		if g.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, nil, docqa.Errorf(docqa.EINVALID, "GEMINI_API_KEY not set")
		}
		client, err := gemini.NewClient(ctx, g.GeminiAPIKey)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, nil, err
		}
		return gemini.NewEmbedder(client, cfg.EmbeddingModel, cfg.Dimension),
			gemini.NewGenerator(client, cfg.GenerationModel), nil
	}
}

// newIngester assembles the fetch, extract and chunk pipeline.
func (m *Main) newIngester(cfg docqa.Config, sitemaps docqa.SitemapService, embedder docqa.Embedder, store docqa.VectorStore, stderr io.Writer, log *slog.Logger) (*ingest.Ingester, error) {
	fetcher := m.Fetcher
	if fetcher == nil {
		if cfg.Browser {
			f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.FetchTimeout))
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return nil, fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = f
		} else {
			fetcher = docqahttp.NewFetcher(docqahttp.WithTimeout(cfg.FetchTimeout))
		}
		m.closers = append(m.closers, fetcher.Close)
	}

	var extractor docqa.Extractor
	switch cfg.Extractor {
	case docqa.ExtractorTrafilatura:
		extractor = trafilatura.NewExtractor()
	case docqa.ExtractorReadability:
		extractor = readability.NewExtractor()
	default:
		extractor = goquery.NewExtractor()
	}

	tok, err := tiktoken.NewTokenizer(tiktoken.DefaultEncoding)
	if err != nil {
		return nil, err
	}
	chunker, err := docqa.NewChunker(tok, cfg.Chunk)
	if err != nil {
		return nil, err
	}

	return &ingest.Ingester{
		Sitemaps: sitemaps,
		Extractor: &ingest.PageExtractor{
			Fetcher:     dqslog.NewLoggingFetcher(fetcher, log),
			Extractor:   dqslog.NewLoggingExtractor(extractor, goquery.NewDetector(), log),
			Limiter:     ingest.NewDomainLimiter(cfg.RateLimit),
			RetryDelays: docqa.DefaultRetryDelays(),
			Logger:      log,
		},
		Chunker:   chunker,
		Embedder:  embedder,
		Store:     store,
		Dimension: cfg.Dimension,
		Logger:    log,
	}, nil
}

// newLogger returns a text or JSON logger on w at the named level.
func newLogger(w io.Writer, level string, json bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	if path := os.Getenv("DOCQA_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docqa.db"
	}
	return filepath.Join(home, ".docqa", "docqa.db")
}
