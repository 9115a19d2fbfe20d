package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docqa"
	"google.golang.org/genai"
)

// Ensure Generator implements docqa.Generator at compile time.
var _ docqa.Generator = (*Generator)(nil)

// Generator implements docqa.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultGenerationModel
	}
	return &Generator{client: client, model: model}
}

// Generate answers req.Question from req.Context.
func (g *Generator) Generate(ctx context.Context, req docqa.GenerateRequest) (string, error) {
	if req.Question == "" {
		return "", docqa.Errorf(docqa.EINVALID, "question required")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: BuildUserPrompt(req.Context, req.Question)}},
		}},
		BuildConfig(req.SystemInstruction),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docqa.Errorf(docqa.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(systemInstruction string) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}
	return config
}

// BuildUserPrompt wraps the retrieved passages and the question.
func BuildUserPrompt(context, question string) string {
	var sb strings.Builder
	if context != "" {
		sb.WriteString("<context>\n")
		sb.WriteString(context)
		sb.WriteString("\n</context>\n\n")
	}
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
