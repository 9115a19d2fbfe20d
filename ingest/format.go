package ingest

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatDuration rounds d for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return d.Round(time.Second).String()
	case d >= time.Second:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

// FormatStatus returns a short label for a URL outcome.
func FormatStatus(s Status) string {
	switch s {
	case StatusSucceeded:
		return "ok"
	case StatusSkippedIngested:
		return "skip (already ingested)"
	case StatusSkippedNoContent:
		return "skip (no content)"
	case StatusSkippedNoChunks:
		return "skip (no chunks)"
	default:
		return "failed"
	}
}

// WriteSummary prints the end-of-run report.
func WriteSummary(w io.Writer, s *Summary) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Ingestion complete")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total URLs:              %d\n", s.Total)
	fmt.Fprintf(w, "Successfully processed:  %d\n", s.Processed)
	fmt.Fprintf(w, "Skipped:                 %d\n", s.Skipped)
	fmt.Fprintf(w, "Errors:                  %d\n", s.Failed)
	fmt.Fprintf(w, "Chunks created:          %d\n", s.Chunks)
	fmt.Fprintf(w, "Embeddings generated:    %d\n", s.Embeddings)
	fmt.Fprintf(w, "Execution time:          %s\n", FormatDuration(s.Duration))
	fmt.Fprintln(w, rule)
}
