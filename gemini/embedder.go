package gemini

import (
	"context"

	"github.com/fwojciec/docqa"
	"google.golang.org/genai"
)

// Task types understood by Gemini embedding models.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements docqa.Embedder at compile time.
var _ docqa.Embedder = (*Embedder)(nil)

// Embedder implements docqa.Embedder using Gemini embedding models.
type Embedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewEmbedder creates a new Embedder. A zero dimension leaves the model's
// native output size.
func NewEmbedder(client *genai.Client, model string, dimension int) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model, dimension: dimension}
}

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string, mode docqa.EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	config, err := BuildEmbedConfig(mode, e.dimension)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, docqa.Errorf(docqa.EINTERNAL, "gemini returned nil embedding response")
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, docqa.Errorf(docqa.EINTERNAL, "gemini returned nil embedding at %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// BuildEmbedConfig maps an embedding mode to the Gemini task type.
func BuildEmbedConfig(mode docqa.EmbedMode, dimension int) (*genai.EmbedContentConfig, error) {
	config := &genai.EmbedContentConfig{}
	switch mode {
	case docqa.EmbedDocument:
		config.TaskType = TaskRetrievalDocument
	case docqa.EmbedQuery:
		config.TaskType = TaskRetrievalQuery
	default:
		return nil, docqa.Errorf(docqa.EINVALID, "unknown embed mode %q", mode)
	}
	if dimension > 0 {
		d := int32(dimension)
		config.OutputDimensionality = &d
	}
	return config, nil
}
