package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/sqlite"
	"github.com/RichardMcSorley/aisle/viper"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   *viper.Config
	DB       *sqlite.DB
	Runs     aisle.RunService
	Products aisle.ProductService
	Writer   aisle.CatalogWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Discover DiscoverCmd `cmd:"" help:"Run catalog discovery for configured profiles"`
	Runs     RunsCmd     `cmd:"" help:"List stored discovery runs"`
	Export   ExportCmd   `cmd:"" help:"Export a stored run's catalog as a JSON file"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a stored run and its products"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	Profiles    []string `arg:"" optional:"" help:"Profile names (default: all configured)"`
	Concurrency int      `short:"c" default:"2" help:"Concurrent profile limit"`
	Export      bool     `short:"e" help:"Write the catalog JSON file after each run"`
	MaxProducts int      `help:"Override the profile's product cap"`
	MaxRounds   int      `help:"Override the profile's round cap"`
	Verbose     bool     `short:"v" help:"Log every source request"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Profile string `short:"p" help:"Only show runs for this profile"`
	Limit   int    `short:"n" default:"20" help:"Maximum number of runs to show"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	RunID string `arg:"" help:"Run ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	RunID string `arg:"" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}
