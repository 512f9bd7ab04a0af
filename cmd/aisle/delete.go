package main

import (
	"fmt"

	"github.com/RichardMcSorley/aisle"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return aisle.Errorf(aisle.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, c.RunID); err != nil {
		if aisle.ErrorCode(err) == aisle.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'aisle runs' to see stored runs.\n", c.RunID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", aisle.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %q\n", c.RunID)
	return nil
}
