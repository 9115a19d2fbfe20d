package openai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeEmbedder struct {
	docs    [][]string
	queries []string
	err     error
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.docs = append(f.docs, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text))}, nil
}

type fakeModel struct {
	messages []llms.MessageContent
	resp     *llms.ContentResponse
	err      error
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	return f.resp, f.err
}

func (f *fakeModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("document mode embeds batch", func(t *testing.T) {
		t.Parallel()
		fake := &fakeEmbedder{}
		e := openai.NewEmbedder(fake)

		vectors, err := e.Embed(context.Background(), []string{"a", "b"}, docqa.EmbedDocument)
		require.NoError(t, err)
		assert.Len(t, vectors, 2)
		assert.Equal(t, [][]string{{"a", "b"}}, fake.docs)
		assert.Empty(t, fake.queries)
	})

	t.Run("query mode embeds each text", func(t *testing.T) {
		t.Parallel()
		fake := &fakeEmbedder{}
		e := openai.NewEmbedder(fake)

		vectors, err := e.Embed(context.Background(), []string{"abc"}, docqa.EmbedQuery)
		require.NoError(t, err)
		assert.Equal(t, [][]float32{{3}}, vectors)
		assert.Equal(t, []string{"abc"}, fake.queries)
	})

	t.Run("empty input makes no call", func(t *testing.T) {
		t.Parallel()
		fake := &fakeEmbedder{}
		vectors, err := openai.NewEmbedder(fake).Embed(context.Background(), nil, docqa.EmbedDocument)
		require.NoError(t, err)
		assert.Nil(t, vectors)
		assert.Empty(t, fake.docs)
	})

	t.Run("unknown mode is invalid", func(t *testing.T) {
		t.Parallel()
		_, err := openai.NewEmbedder(&fakeEmbedder{}).Embed(context.Background(), []string{"a"}, "other")
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})

	t.Run("propagates errors", func(t *testing.T) {
		t.Parallel()
		_, err := openai.NewEmbedder(&fakeEmbedder{err: errors.New("boom")}).Embed(context.Background(), []string{"a"}, docqa.EmbedQuery)
		require.Error(t, err)
	})
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns first choice verbatim", func(t *testing.T) {
		t.Parallel()
		model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "  answer  "}}}}
		g := openai.NewGenerator(model)

		got, err := g.Generate(context.Background(), docqa.GenerateRequest{
			Question:          "What?",
			SystemInstruction: "Be concise.",
			Context:           "[Source: A]\ntext",
		})
		require.NoError(t, err)
		assert.Equal(t, "  answer  ", got)
		require.Len(t, model.messages, 2)
		assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
		assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	})

	t.Run("empty question is invalid", func(t *testing.T) {
		t.Parallel()
		_, err := openai.NewGenerator(&fakeModel{}).Generate(context.Background(), docqa.GenerateRequest{})
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})

	t.Run("no choices is internal error", func(t *testing.T) {
		t.Parallel()
		model := &fakeModel{resp: &llms.ContentResponse{}}
		_, err := openai.NewGenerator(model).Generate(context.Background(), docqa.GenerateRequest{Question: "q"})
		assert.Equal(t, docqa.EINTERNAL, docqa.ErrorCode(err))
	})
}

func TestBuildMessages(t *testing.T) {
	t.Parallel()

	t.Run("omits system message when empty", func(t *testing.T) {
		t.Parallel()
		msgs := openai.BuildMessages(docqa.GenerateRequest{Question: "q"})
		require.Len(t, msgs, 1)
		assert.Equal(t, llms.TextPart("Question: q"), msgs[0].Parts[0])
	})

	t.Run("includes context before question", func(t *testing.T) {
		t.Parallel()
		msgs := openai.BuildMessages(docqa.GenerateRequest{Question: "q", Context: "ctx"})
		assert.Equal(t, llms.TextPart("Context:\nctx\n\nQuestion: q"), msgs[0].Parts[0])
	})
}
