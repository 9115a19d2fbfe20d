// Package openai implements docqa.Embedder and docqa.Generator for
// OpenAI-compatible APIs through langchaingo.
package openai

import (
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Default models.
const (
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultGenerationModel = "gpt-4o-mini"
)

// Config holds connection settings shared by the embedder and generator.
type Config struct {
	BaseURL string
	Token   string

	EmbeddingModel  string
	GenerationModel string

	// Dimension requests shortened embeddings when non-zero.
	Dimension int
}

func (c Config) options() []openai.Option {
	// Local OpenAI-compatible services accept any token.
	token := c.Token
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{openai.WithToken(token)}
	if c.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(c.BaseURL))
	}
	return opts
}

// NewLangchainEmbedder creates a langchaingo embedder for cfg.
func NewLangchainEmbedder(cfg Config) (embeddings.Embedder, error) {
	model := cfg.EmbeddingModel
	if model == "" {
		model = DefaultEmbeddingModel
	}
	opts := append(cfg.options(), openai.WithEmbeddingModel(model))
	if cfg.Dimension > 0 {
		opts = append(opts, openai.WithEmbeddingDimensions(cfg.Dimension))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
}

// NewLangchainModel creates a langchaingo chat model for cfg.
func NewLangchainModel(cfg Config) (*openai.LLM, error) {
	model := cfg.GenerationModel
	if model == "" {
		model = DefaultGenerationModel
	}
	return openai.New(append(cfg.options(), openai.WithModel(model))...)
}
