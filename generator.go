package docqa

import "context"

// GenerateRequest is a single grounded generation call.
type GenerateRequest struct {
	Question          string
	SystemInstruction string

	// Context holds the retrieved passages the answer must be based on.
	Context string
}

// Generator produces an answer from a question and supporting context.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
