// Package goquery extracts page titles and body text from documentation
// HTML using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docqa"
)

// Ensure Extractor implements docqa.Extractor at compile time.
var _ docqa.Extractor = (*Extractor)(nil)

// boilerplate is removed from the content container before flattening.
const boilerplate = "nav, footer, script, style, noscript, template, svg"

// Extractor pulls the title and main body text out of documentation pages.
type Extractor struct {
	detector *Detector
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{detector: NewDetector()}
}

// Extract returns the page title and whitespace-joined body text.
//
// The title is the <title> text, or the first <h1> when the page has no
// title. The body comes from the detected framework's content container,
// then <article>, then <main>, and finally the whole <body>.
func (e *Extractor) Extract(html string) (*docqa.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docqa.Errorf(docqa.EINVALID, "failed to parse HTML: %v", err)
	}

	title := normalizeSpace(doc.Find("title").First().Text())
	if title == "" {
		title = normalizeSpace(doc.Find("h1").First().Text())
	}

	container := e.container(doc)
	container.Find(boilerplate).Remove()

	return &docqa.ExtractResult{
		Title: title,
		Text:  textOf(container),
	}, nil
}

func (e *Extractor) container(doc *goquery.Document) *goquery.Selection {
	framework := e.detector.DetectDocument(doc)
	for _, sel := range contentSelectors(framework) {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// textOf flattens a selection to text, separating block-level nodes so
// words from adjacent elements do not run together.
func textOf(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			parts = append(parts, c.Text())
			return
		}
		parts = append(parts, textOf(c))
	})
	return normalizeSpace(strings.Join(parts, " "))
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
