// Package readability implements docqa.Extractor with the Mozilla
// Readability algorithm.
package readability

import (
	"strings"

	"github.com/fwojciec/docqa"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docqa.Extractor at compile time.
var _ docqa.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and its text with whitespace collapsed.
func (e *Extractor) Extract(rawHTML string) (*docqa.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docqa.Errorf(docqa.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, docqa.Errorf(docqa.EINVALID, "readability: %v", err)
	}

	return &docqa.ExtractResult{
		Title: strings.Join(strings.Fields(article.Title), " "),
		Text:  strings.Join(strings.Fields(article.TextContent), " "),
	}, nil
}
