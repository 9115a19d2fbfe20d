// Package rag answers questions from the vector index: embed the question,
// retrieve the nearest chunks, generate a grounded answer and cite sources.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/docqa"
)

// Retrieval defaults.
const (
	DefaultTopK     = docqa.DefaultTopK
	DefaultMinScore = docqa.DefaultMinScore
)

// NoResultsAnswer is returned when no passage meets the similarity floor.
const NoResultsAnswer = "I couldn't find relevant information in the textbook to answer your question. Please try rephrasing or asking about a different topic."

// SystemInstruction tells the model to stay within the retrieved context.
const SystemInstruction = `You are an AI assistant for a documentation site.
Answer questions based on the provided context.
If the context doesn't contain relevant information, say so clearly.
Be concise, accurate, and educational.`

// Ensure Asker implements docqa.Asker at compile time.
var _ docqa.Asker = (*Asker)(nil)

// Asker implements docqa.Asker. It holds no per-request state and is safe
// for concurrent use.
type Asker struct {
	embedder  docqa.Embedder
	store     docqa.VectorStore
	generator docqa.Generator

	topK              int
	minScore          float32
	systemInstruction string
	logger            *slog.Logger
	now               func() time.Time
}

// Option configures an Asker.
type Option func(*Asker)

// WithTopK sets the number of passages retrieved per question.
func WithTopK(k int) Option {
	return func(a *Asker) { a.topK = k }
}

// WithMinScore sets the similarity floor.
func WithMinScore(score float32) Option {
	return func(a *Asker) { a.minScore = score }
}

// WithSystemInstruction replaces SystemInstruction.
func WithSystemInstruction(s string) Option {
	return func(a *Asker) { a.systemInstruction = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Asker) { a.logger = logger }
}

// WithClock sets the time source for answer timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Asker) { a.now = now }
}

// NewAsker creates a new Asker.
func NewAsker(embedder docqa.Embedder, store docqa.VectorStore, generator docqa.Generator, opts ...Option) *Asker {
	a := &Asker{
		embedder:          embedder,
		store:             store,
		generator:         generator,
		topK:              DefaultTopK,
		minScore:          DefaultMinScore,
		systemInstruction: SystemInstruction,
		logger:            slog.Default(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers question. When nothing scores above the floor the canned
// NoResultsAnswer is returned with nil sources and the generator is not
// called.
func (a *Asker) Ask(ctx context.Context, question string) (*docqa.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, docqa.Errorf(docqa.EINVALID, "question required")
	}

	vectors, err := a.embedder.Embed(ctx, []string{question}, docqa.EmbedQuery)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, docqa.Errorf(docqa.EINTERNAL, "got %d query embeddings, want 1", len(vectors))
	}

	results, err := a.store.Search(ctx, vectors[0], docqa.SearchOptions{Limit: a.topK, MinScore: a.minScore})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		a.logger.Warn("no relevant chunks found")
		return &docqa.Answer{Text: NoResultsAnswer, Timestamp: a.now().UTC()}, nil
	}
	a.logger.Info("retrieved chunks", "count", len(results))

	text, err := a.generator.Generate(ctx, docqa.GenerateRequest{
		Question:          question,
		SystemInstruction: a.systemInstruction,
		Context:           BuildContext(results),
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	sources := docqa.Citations(results)
	a.logger.Info("generated answer", "sources", len(sources))

	return &docqa.Answer{
		Text:      text,
		Sources:   sources,
		Timestamp: a.now().UTC(),
	}, nil
}

// BuildContext renders results as "[Source: <title>]\n<text>" blocks
// separated by blank lines, in result order.
func BuildContext(results []docqa.QueryResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("[Source: %s]\n%s", r.Payload.PageTitle, r.Payload.Text)
	}
	return strings.Join(blocks, "\n\n")
}
