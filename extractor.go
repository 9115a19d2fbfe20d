package docqa

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, empty when the page has none.
	Title string

	// Text is the main content flattened to whitespace-joined plain text.
	// Navigation, footers, scripts and styles are removed.
	Text string
}

// Extractor extracts the title and main text from HTML pages.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
