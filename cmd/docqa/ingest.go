package main

import (
	"fmt"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/ingest"
)

// urlColumn is the display width of URLs in progress lines.
const urlColumn = 60

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	filter, err := docqa.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Ingesting %s\n", c.SitemapURL)
	summary, err := deps.Ingester.Run(deps.Ctx, c.SitemapURL, filter, func(ev ingest.ProgressEvent) {
		line := fmt.Sprintf("[%d/%d] %-*s %s", ev.Index, ev.Total, urlColumn, ingest.TruncateURL(ev.Outcome.URL, urlColumn), ingest.FormatStatus(ev.Outcome.Status))
		if ev.Outcome.Status == ingest.StatusSucceeded {
			line += fmt.Sprintf(" (%d chunks)", ev.Outcome.Chunks)
		}
		if ev.Outcome.Err != nil {
			line += ": " + docqa.ErrorMessage(ev.Outcome.Err)
		}
		fmt.Fprintln(deps.Stdout, line)
	})
	if summary != nil {
		fmt.Fprintln(deps.Stdout)
		ingest.WriteSummary(deps.Stdout, summary)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}
	return nil
}
