package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docqa.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docqa.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docqa.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docqa.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of docqa.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(ctx context.Context, url string) *docqa.Document
}

func (e *ContentExtractor) Extract(ctx context.Context, url string) *docqa.Document {
	return e.ExtractFn(ctx, url)
}

var _ docqa.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of docqa.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) docqa.Framework
}

func (d *FrameworkDetector) Detect(html string) docqa.Framework {
	return d.DetectFn(html)
}
