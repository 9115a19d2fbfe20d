package main

import (
	"fmt"

	"github.com/fwojciec/docqa"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	info, err := deps.Store.Info(deps.Ctx)
	if err != nil {
		if docqa.ErrorCode(err) == docqa.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: run 'docqa ingest' to create the collection")
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Collection:  %s\n", info.Name)
	fmt.Fprintf(deps.Stdout, "Dimension:   %d\n", info.Dimension)
	fmt.Fprintf(deps.Stdout, "Points:      %d\n", info.Points)
	fmt.Fprintf(deps.Stdout, "URLs:        %d\n", info.URLs)
	return nil
}
