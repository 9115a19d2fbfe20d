package docqa

import "context"

// Document represents one fetched documentation page. Documents are
// transient: only the chunks derived from them are persisted.
type Document struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// IsEmpty reports whether the document has no usable text.
func (d *Document) IsEmpty() bool {
	return d == nil || d.Text == ""
}

// ContentExtractor turns a URL into a Document.
type ContentExtractor interface {
	// Extract fetches the page and extracts its title and body text.
	// It never fails: fetch and parse errors are logged and produce a
	// Document with empty Title and Text.
	Extract(ctx context.Context, url string) *Document
}
