package openai

import (
	"context"

	"github.com/fwojciec/docqa"
	"github.com/tmc/langchaingo/embeddings"
)

// Ensure Embedder implements docqa.Embedder at compile time.
var _ docqa.Embedder = (*Embedder)(nil)

// Embedder implements docqa.Embedder on a langchaingo embedder. OpenAI
// models embed documents and queries the same way; query mode goes through
// EmbedQuery one text at a time.
type Embedder struct {
	embedder embeddings.Embedder
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(e embeddings.Embedder) *Embedder {
	return &Embedder{embedder: e}
}

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string, mode docqa.EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	switch mode {
	case docqa.EmbedDocument:
		return e.embedder.EmbedDocuments(ctx, texts)
	case docqa.EmbedQuery:
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			v, err := e.embedder.EmbedQuery(ctx, text)
			if err != nil {
				return nil, err
			}
			vectors[i] = v
		}
		return vectors, nil
	default:
		return nil, docqa.Errorf(docqa.EINVALID, "unknown embed mode %q", mode)
	}
}
