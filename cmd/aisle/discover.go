package main

import (
	"context"
	"fmt"
	"time"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/discover"
	"github.com/RichardMcSorley/aisle/resty"
	aisleslog "github.com/RichardMcSorley/aisle/slog"
	"github.com/RichardMcSorley/aisle/viper"
	"golang.org/x/sync/errgroup"
)

// outcome holds what one profile's discovery produced.
type outcome struct {
	run  *aisle.Run
	path string
	err  error
}

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	names := c.Profiles
	if len(names) == 0 {
		names = deps.Config.ListProfiles()
	}
	if len(names) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no profiles configured\n")
		return aisle.Errorf(aisle.EINVALID, "no profiles configured")
	}

	// Validate names before starting any network work
	profiles := make([]viper.Profile, len(names))
	for i, name := range names {
		profile, err := deps.Config.GetProfile(name)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", aisle.ErrorMessage(err))
			return err
		}
		profiles[i] = profile
	}

	// Each profile targets a different source, so profiles may run
	// concurrently; every run owns its engine, frontier and limiter. One
	// profile failing must not cancel the others, so goroutines record
	// their outcome instead of returning an error to the group.
	outcomes := make([]outcome, len(names))
	var g errgroup.Group
	g.SetLimit(c.Concurrency)
	for i := range names {
		g.Go(func() error {
			outcomes[i] = c.runProfile(deps, names[i], profiles[i])
			return nil
		})
	}
	_ = g.Wait()

	var firstErr error
	for i, name := range names {
		o := outcomes[i]
		if o.run != nil {
			printSummary(deps, name, o.run, o.path)
		}
		if o.err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", name, aisle.ErrorMessage(o.err))
			if firstErr == nil {
				firstErr = o.err
			}
		}
	}
	return firstErr
}

// runProfile runs discovery for one profile and persists the result. A run
// that failed mid-way (seed failure, cancellation) is still saved with
// whatever it collected.
func (c *DiscoverCmd) runProfile(deps *Dependencies, name string, profile viper.Profile) outcome {
	opts := profile.Options()
	if c.MaxProducts > 0 {
		opts.MaxProducts = c.MaxProducts
	}
	if c.MaxRounds > 0 {
		opts.MaxRounds = c.MaxRounds
	}

	var clientOpts []resty.Option
	if profile.Timeout > 0 {
		clientOpts = append(clientOpts, resty.WithTimeout(profile.Timeout))
	}
	client, err := resty.NewClient(profile.Source, clientOpts...)
	if err != nil {
		return outcome{err: err}
	}

	engine := &discover.Engine{
		Fetcher: client,
		Options: opts,
	}
	if profile.Hydrate {
		engine.Hydrator = client
	}
	if profile.RPS > 0 {
		engine.RateLimiter = discover.NewSourceLimiter(profile.RPS)
	}
	if c.Verbose {
		logger := deps.Logger.With("profile", name)
		engine.Fetcher = aisleslog.NewLoggingPageFetcher(client, logger)
		if engine.Hydrator != nil {
			engine.Hydrator = aisleslog.NewLoggingHydrator(client, logger)
		}
	}

	result, runErr := engine.Run(deps.Ctx, c.progress(deps, name))
	if result == nil {
		return outcome{err: runErr}
	}

	run := &aisle.Run{
		Profile:      name,
		SeedQuery:    result.Summary.SeedQuery,
		Rounds:       result.Summary.Rounds,
		Categories:   result.Summary.CategoriesQueried,
		ProductCount: len(result.Products),
		Reason:       result.Summary.Reason,
		Errors:       result.Summary.Errors,
		StartedAt:    result.Summary.StartedAt,
		FinishedAt:   result.Summary.FinishedAt,
	}

	// Saving uses a fresh context: a canceled run still keeps its partial
	// catalog.
	saveCtx := context.WithoutCancel(deps.Ctx)
	if err := deps.Runs.CreateRun(saveCtx, run); err != nil {
		return outcome{run: run, err: err}
	}
	if err := deps.Products.CreateProducts(saveCtx, run.ID, result.Products); err != nil {
		return outcome{run: run, err: err}
	}

	var path string
	if c.Export {
		path, err = deps.Writer.WriteCatalog(saveCtx, run, result.Products)
		if err != nil {
			return outcome{run: run, err: err}
		}
	}

	return outcome{run: run, path: path, err: runErr}
}

// progress returns the engine progress callback, logging each round when
// verbose is set.
func (c *DiscoverCmd) progress(deps *Dependencies, name string) discover.ProgressFunc {
	if !c.Verbose {
		return nil
	}
	logger := deps.Logger.With("profile", name)
	return func(e discover.ProgressEvent) {
		switch e.Type {
		case discover.ProgressQueried:
			logger.Info("queried", "round", e.Round, "selector", e.Selector.String(), "added", e.Added, "total", e.Total)
		case discover.ProgressFailed:
			logger.Warn("query failed", "round", e.Round, "selector", e.Selector.String(), "err", e.Error)
		}
	}
}

// printSummary writes one run's result lines to stdout.
func printSummary(deps *Dependencies, name string, run *aisle.Run, path string) {
	took := run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)
	fmt.Fprintf(deps.Stdout, "%s: %d products, %d rounds, %d categories (%s, %s)\n",
		name, run.ProductCount, run.Rounds, len(run.Categories), run.Reason, took)
	for _, qe := range run.Errors {
		fmt.Fprintf(deps.Stdout, "  failed %s: %s\n", qe.Selector, qe.Message)
	}
	if path != "" {
		fmt.Fprintf(deps.Stdout, "  wrote %s\n", path)
	}
	fmt.Fprintf(deps.Stdout, "  run %s\n", run.ID)
}
