package main_test

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/docqa"
	main "github.com/fwojciec/docqa/cmd/docqa"
	"github.com/fwojciec/docqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv runs commands against a temporary SQLite store with mocked
// network services.
type testEnv struct {
	dbPath    string
	pages     map[string]string
	generated []docqa.GenerateRequest
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		dbPath: filepath.Join(t.TempDir(), "docqa.db"),
		pages: map[string]string{
			"https://example.com/docs/install": page("Installation", "Run the installer and follow the prompts to set up the tool."),
			"https://example.com/docs/config":  page("Configuration", "Settings live in a TOML file in your home directory."),
		},
	}
}

func page(title, body string) string {
	return fmt.Sprintf("<html><head><title>%s</title></head><body><main><h1>%s</h1><p>%s</p></main></body></html>", title, title, body)
}

func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	m.ConfigPaths = nil
	m.DBPath = e.dbPath
	m.Sitemaps = &mock.SitemapService{
		ListURLsFn: func(ctx context.Context, sitemapURL string, filter *docqa.URLFilter) ([]string, error) {
			return []string{"https://example.com/docs/install", "https://example.com/docs/config"}, nil
		},
	}
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			return e.pages[url], nil
		},
	}
	m.Embedder = &mock.Embedder{
		EmbedFn: func(ctx context.Context, texts []string, mode docqa.EmbedMode) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i, text := range texts {
				if strings.Contains(text, "TOML") || strings.Contains(text, "settings") {
					vectors[i] = []float32{0, 1, 0}
				} else {
					vectors[i] = []float32{1, 0, 0}
				}
			}
			return vectors, nil
		},
	}
	m.Generator = &mock.Generator{
		GenerateFn: func(ctx context.Context, req docqa.GenerateRequest) (string, error) {
			e.generated = append(e.generated, req)
			return "Edit the TOML file.", nil
		},
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	base := []string{"--dimension", "3", "--log-level", "error"}
	err := m.Run(context.Background(), append(base, args...), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	stdout, _, err := env.run(t, "ingest", "--sitemap-url", "https://example.com/sitemap.xml", "--rate-limit", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1/2]")
	assert.Contains(t, stdout, "[2/2]")
	assert.Contains(t, stdout, "Successfully processed:  2")
	assert.Contains(t, stdout, "Errors:                  0")

	stdout, _, err = env.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dimension:   3")
	assert.Contains(t, stdout, "URLs:        2")

	stdout, _, err = env.run(t, "ask", "where are settings stored?")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Edit the TOML file.")
	assert.Contains(t, stdout, "Sources:")
	assert.Contains(t, stdout, "https://example.com/docs/config")
	require.Len(t, env.generated, 1)
	assert.Contains(t, env.generated[0].Context, "TOML file")

	// A second pass skips every page that is already stored.
	stdout, _, err = env.run(t, "ingest", "--sitemap-url", "https://example.com/sitemap.xml", "--rate-limit", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "skip (already ingested)")
	assert.Contains(t, stdout, "Skipped:                 2")

	stdout, _, err = env.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "URLs:        2")
}

func TestMain_Run_StatsBeforeIngest(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, stderr, err := env.run(t, "stats")

	assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))
	assert.Contains(t, stderr, "docqa ingest")
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, stderr, err := env.run(t, "ingest", "--sitemap-url", "https://example.com/sitemap.xml", "--chunk-min", "600")

	assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	assert.Contains(t, stderr, "error:")
}
