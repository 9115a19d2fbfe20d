package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

// Ensure LoggingExtractor implements docqa.Extractor.
var _ docqa.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and logs the detected documentation
// framework alongside the extraction result.
type LoggingExtractor struct {
	next     docqa.Extractor
	detector docqa.FrameworkDetector
	logger   *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. detector may be nil.
func NewLoggingExtractor(next docqa.Extractor, detector docqa.FrameworkDetector, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, detector: detector, logger: logger}
}

// Extract delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(html string) (result *docqa.ExtractResult, err error) {
	framework := docqa.FrameworkUnknown
	if e.detector != nil {
		framework = e.detector.Detect(html)
	}
	defer func(begin time.Time) {
		var title string
		var chars int
		if result != nil {
			title, chars = result.Title, len(result.Text)
		}
		e.logger.Debug("extract",
			"framework", framework.String(),
			"title", title,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
