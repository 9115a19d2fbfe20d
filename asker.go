package docqa

import (
	"context"
	"time"
)

// Answer is the response to a question.
type Answer struct {
	Text string `json:"answer"`

	// Sources is nil when no passage met the similarity floor.
	Sources   []Citation `json:"sources"`
	Timestamp time.Time  `json:"timestamp"`
}

// Asker answers natural language questions about the indexed documentation.
type Asker interface {
	Ask(ctx context.Context, question string) (*Answer, error)
}
