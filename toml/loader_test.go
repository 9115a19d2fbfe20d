package toml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Collection string        `default:"docs"`
	TopK       int           `name:"top-k" default:"5"`
	MinScore   float64       `name:"min-score" default:"0.3"`
	Timeout    time.Duration `default:"30s"`
	Include    []string

	Serve struct {
		Addr string `default:":8000"`
	} `cmd:""`
	Stats struct{} `cmd:""`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func parse(t *testing.T, config string, args ...string) (*testCLI, error) {
	t.Helper()
	cli := &testCLI{}
	parser, err := kong.New(cli,
		kong.Configuration(toml.Loader, writeConfig(t, config)),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)
	_, err = parser.Parse(args)
	return cli, err
}

func TestLoader(t *testing.T) {
	t.Parallel()

	t.Run("sets top-level flags", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, `
collection = "handbook"
top_k = 8
min-score = 0.5
timeout = "10s"
include = ["/docs/", "/guide/"]
`, "stats")
		require.NoError(t, err)
		assert.Equal(t, "handbook", cli.Collection)
		assert.Equal(t, 8, cli.TopK)
		assert.InDelta(t, 0.5, cli.MinScore, 1e-9)
		assert.Equal(t, 10*time.Second, cli.Timeout)
		assert.Equal(t, []string{"/docs/", "/guide/"}, cli.Include)
	})

	t.Run("sets command flags from table", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, `
[serve]
addr = ":9000"
`, "serve")
		require.NoError(t, err)
		assert.Equal(t, ":9000", cli.Serve.Addr)
	})

	t.Run("command line overrides file", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, `collection = "handbook"`, "--collection=cli", "stats")
		require.NoError(t, err)
		assert.Equal(t, "cli", cli.Collection)
	})

	t.Run("keeps defaults for missing keys", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, ``, "stats")
		require.NoError(t, err)
		assert.Equal(t, "docs", cli.Collection)
		assert.Equal(t, 5, cli.TopK)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, `colection = "typo"`, "stats")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "colection")
	})

	t.Run("rejects malformed toml", func(t *testing.T) {
		t.Parallel()

		_, err := toml.Loader(strings.NewReader("collection = "))
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})
}
