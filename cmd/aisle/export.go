package main

import (
	"fmt"

	"github.com/RichardMcSorley/aisle"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		if aisle.ErrorCode(err) == aisle.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'aisle runs' to see stored runs.\n", c.RunID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", aisle.ErrorMessage(err))
		}
		return err
	}

	products, err := deps.Products.FindProductsByRun(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aisle.ErrorMessage(err))
		return err
	}

	path, err := deps.Writer.WriteCatalog(deps.Ctx, run, products)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aisle.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d products to %s\n", len(products), path)
	return nil
}
