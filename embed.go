package docqa

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultBatchSize is the maximum number of texts sent in one embedding call.
const DefaultBatchSize = 96

// EmbedMode tells the embedding provider which side of retrieval a text is on.
type EmbedMode string

// Embedding modes.
const (
	EmbedDocument EmbedMode = "document"
	EmbedQuery    EmbedMode = "query"
)

// Embedder turns texts into fixed-dimension vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error)
}

// Ensure BatchEmbedder implements Embedder at compile time.
var _ Embedder = (*BatchEmbedder)(nil)

// BatchEmbedder splits large inputs into provider-sized batches and retries
// each batch with backoff.
type BatchEmbedder struct {
	Embedder Embedder

	// BatchSize defaults to DefaultBatchSize when zero.
	BatchSize int

	// Dimension, when non-zero, is checked against every returned vector.
	Dimension int

	// Delays between attempts. Defaults to DefaultRetryDelays when nil.
	Delays []time.Duration

	// Logger receives retry notices. Optional.
	Logger *slog.Logger
}

// Embed embeds texts batch by batch and concatenates the results in
// submission order. A batch that still fails after the last attempt fails
// the whole call.
func (b *BatchEmbedder) Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	size := b.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	delays := b.Delays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batch := texts[start:end]

		out, err := Retry(ctx, delays, func(ctx context.Context) ([][]float32, error) {
			return b.Embedder.Embed(ctx, batch, mode)
		}, func(attempt int, err error) {
			if b.Logger != nil {
				b.Logger.Warn("embed retry", "batch_start", start, "batch_size", len(batch), "attempt", attempt, "err", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(out) != len(batch) {
			return nil, Errorf(EINTERNAL, "embedder returned %d vectors for %d texts", len(out), len(batch))
		}
		if b.Dimension > 0 {
			for i, v := range out {
				if len(v) != b.Dimension {
					return nil, Errorf(EINTERNAL, "embedding %d has dimension %d, want %d", start+i, len(v), b.Dimension)
				}
			}
		}
		vectors = append(vectors, out...)
	}

	return vectors, nil
}
