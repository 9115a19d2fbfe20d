package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docqa"
	"github.com/tmc/langchaingo/llms"
)

// Temperature used for answer generation.
const Temperature = 0.4

// Ensure Generator implements docqa.Generator at compile time.
var _ docqa.Generator = (*Generator)(nil)

// Generator implements docqa.Generator on a langchaingo chat model.
type Generator struct {
	model llms.Model
}

// NewGenerator creates a new Generator.
func NewGenerator(model llms.Model) *Generator {
	return &Generator{model: model}
}

// Generate answers req.Question from req.Context.
func (g *Generator) Generate(ctx context.Context, req docqa.GenerateRequest) (string, error) {
	if req.Question == "" {
		return "", docqa.Errorf(docqa.EINVALID, "question required")
	}

	resp, err := g.model.GenerateContent(ctx, BuildMessages(req), llms.WithTemperature(Temperature))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", docqa.Errorf(docqa.EINTERNAL, "model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// BuildMessages returns the system and user messages for req.
func BuildMessages(req docqa.GenerateRequest) []llms.MessageContent {
	var msgs []llms.MessageContent
	if req.SystemInstruction != "" {
		msgs = append(msgs, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.SystemInstruction)},
		})
	}
	var sb strings.Builder
	if req.Context != "" {
		fmt.Fprintf(&sb, "Context:\n%s\n\n", req.Context)
	}
	fmt.Fprintf(&sb, "Question: %s", req.Question)
	return append(msgs, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(sb.String())},
	})
}
