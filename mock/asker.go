package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.Asker = (*Asker)(nil)

// Asker is a mock implementation of docqa.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (*docqa.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (*docqa.Answer, error) {
	return a.AskFn(ctx, question)
}
