package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docqa.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string, mode docqa.EmbedMode) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string, mode docqa.EmbedMode) ([][]float32, error) {
	return e.EmbedFn(ctx, texts, mode)
}

var _ docqa.Tokenizer = (*Tokenizer)(nil)

// Tokenizer is a mock implementation of docqa.Tokenizer.
type Tokenizer struct {
	EncodeFn func(text string) []int
	DecodeFn func(tokens []int) string
}

func (t *Tokenizer) Encode(text string) []int {
	return t.EncodeFn(text)
}

func (t *Tokenizer) Decode(tokens []int) string {
	return t.DecodeFn(tokens)
}
