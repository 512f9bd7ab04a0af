package main

import (
	"fmt"

	"github.com/RichardMcSorley/aisle"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := aisle.RunFilter{Limit: c.Limit}
	if c.Profile != "" {
		filter.Profile = &c.Profile
	}

	runs, n, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aisle.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'aisle discover' to start one.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d products  %d rounds  %s\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04"), run.Profile,
			run.ProductCount, run.Rounds, run.Reason)
	}
	if n > len(runs) {
		fmt.Fprintf(deps.Stdout, "(%d of %d runs; use -n to show more)\n", len(runs), n)
	}

	return nil
}
