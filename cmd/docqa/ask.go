package main

import (
	"fmt"

	"github.com/fwojciec/docqa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	if len(answer.Sources) == 0 {
		return nil
	}

	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, "Sources:")
	for i, src := range answer.Sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		fmt.Fprintf(deps.Stdout, "  [%d] %s (%.2f)\n      %s\n", i+1, title, src.Score, src.URL)
	}
	return nil
}
