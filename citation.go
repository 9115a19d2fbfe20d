package docqa

// Citation identifies a source page supporting an answer.
type Citation struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float32 `json:"relevance_score"`
}

// Citations returns one citation per distinct URL in results, keeping the
// first occurrence in result order. Results are expected to be ranked.
// Returns nil when results is empty.
func Citations(results []QueryResult) []Citation {
	var citations []Citation
	seen := make(map[string]bool)
	for _, r := range results {
		if seen[r.Payload.URL] {
			continue
		}
		seen[r.Payload.URL] = true
		citations = append(citations, Citation{
			Title: r.Payload.PageTitle,
			URL:   r.Payload.URL,
			Score: r.Score,
		})
	}
	return citations
}
