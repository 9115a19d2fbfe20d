package ingest_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/fwojciec/docqa/ingest"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", ingest.TruncateURL("https://x.com", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		result := ingest.TruncateURL("https://example.com/very/long/path/to/documentation", 20)
		assert.Equal(t, ".../to/documentation", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns empty string when maxLen is not positive", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ingest.TruncateURL("https://example.com", 0))
		assert.Empty(t, ingest.TruncateURL("https://example.com", -1))
	})

	t.Run("returns prefix of URL when maxLen is very small", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", ingest.TruncateURL("https://example.com", 3))
		assert.Equal(t, "a", ingest.TruncateURL("a", 2))
	})
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "~0 tokens", ingest.FormatTokens(0))
	assert.Equal(t, "~999 tokens", ingest.FormatTokens(999))
	assert.Equal(t, "~1k tokens", ingest.FormatTokens(1000))
	assert.Equal(t, "~2k tokens", ingest.FormatTokens(1500))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "250ms", ingest.FormatDuration(250*time.Millisecond+300*time.Microsecond))
	assert.Equal(t, "2.5s", ingest.FormatDuration(2512*time.Millisecond))
	assert.Equal(t, "1m5s", ingest.FormatDuration(65*time.Second+400*time.Millisecond))
}

func TestFormatStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", ingest.FormatStatus(ingest.StatusSucceeded))
	assert.Equal(t, "skip (already ingested)", ingest.FormatStatus(ingest.StatusSkippedIngested))
	assert.Equal(t, "skip (no content)", ingest.FormatStatus(ingest.StatusSkippedNoContent))
	assert.Equal(t, "skip (no chunks)", ingest.FormatStatus(ingest.StatusSkippedNoChunks))
	assert.Equal(t, "failed", ingest.FormatStatus(ingest.StatusFailed))
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ingest.WriteSummary(&buf, &ingest.Summary{
		Total: 3, Processed: 1, Skipped: 1, Failed: 1, Chunks: 4, Embeddings: 2, Duration: 3 * time.Second,
	})

	out := buf.String()
	assert.Contains(t, out, "Total URLs:              3")
	assert.Contains(t, out, "Successfully processed:  1")
	assert.Contains(t, out, "Errors:                  1")
	assert.Contains(t, out, "Chunks created:          4")
	assert.Contains(t, out, "Execution time:          3s")
}
