// Package discover provides product catalog discovery orchestration.
// It coordinates seeded search, category expansion, paging, retries and
// aggregation into a single converging run.
package discover

import (
	"context"
	"fmt"
	"time"

	"github.com/RichardMcSorley/aisle"
)

// Frontier configuration for category expansion.
const (
	// frontierExpectedCategories is the expected number of category keys for Bloom filter sizing.
	frontierExpectedCategories = 10000
	// frontierFalsePositiveRate is the acceptable rate of categories skipped as false duplicates.
	frontierFalsePositiveRate = 0.0001
)

// Engine orchestrates discovery runs against a catalog source.
type Engine struct {
	Fetcher     aisle.PageFetcher
	Hydrator    aisle.Hydrator // optional; nil skips detail enrichment
	Frontier    aisle.CategoryFrontier
	RateLimiter aisle.Limiter
	Options     aisle.Options
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Result holds the outcome of a discovery run.
type Result struct {
	Products []aisle.Product
	Summary  Summary
}

// Summary describes how a run went.
type Summary struct {
	SeedQuery         string
	Rounds            int
	CategoriesQueried []aisle.CategoryKey
	Duplicates        int
	Changed           int
	HydrationFailures int
	Reason            aisle.TerminationReason
	Errors            []aisle.QueryError
	StartedAt         time.Time
	FinishedAt        time.Time
}

// ProgressEvent reports progress during a discovery run.
type ProgressEvent struct {
	Type     ProgressType
	Round    int
	Selector aisle.Selector
	Added    int
	Total    int
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressQueried
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// run carries the mutable state of a single Run call.
type run struct {
	engine   *Engine
	pager    *Pager
	agg      *Aggregator
	frontier aisle.CategoryFrontier
	delays   []time.Duration
	summary  Summary
	progress ProgressFunc
}

// Run executes the discovery loop: the seed query is paged first, category
// keys found on its products are queued, and each queued category is
// queried in turn, oldest first, until the frontier drains or a cap is hit.
// Every category is queried at most once per run.
//
// Failed category queries are recorded in the summary and do not stop the
// run. A seed query that fails without producing a single product ends the
// run with ReasonSeedFailed and a non-nil error; the returned Result still
// carries the summary. Cancellation ends the run with ReasonCanceled and a
// nil error, keeping everything collected so far.
func (e *Engine) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	opts := e.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &run{
		engine:   e,
		frontier: e.Frontier,
		delays:   e.RetryDelays,
		progress: progress,
	}
	if r.frontier == nil {
		r.frontier = NewFrontier(frontierExpectedCategories, frontierFalsePositiveRate)
	}
	if r.delays == nil {
		r.delays = Backoff(opts.BaseBackoff, opts.MaxBackoff, opts.MaxRetries)
	}
	r.agg = NewAggregator(opts.MaxProducts, opts.DedupPolicy)
	r.pager = &Pager{
		Fetcher:     e.Fetcher,
		Limiter:     e.RateLimiter,
		PerPage:     opts.PerPage,
		PageCap:     opts.PageCap,
		RetryDelays: r.delays,
		Logger:      e.Logger,
	}
	r.summary = Summary{
		SeedQuery: opts.SeedQuery,
		StartedAt: time.Now().UTC(),
	}

	r.emit(ProgressEvent{Type: ProgressStarted})

	// Seed round
	r.summary.Rounds = 1
	seed := aisle.QuerySelector(opts.SeedQuery)
	added, err := r.query(ctx, seed)
	if ctx.Err() != nil {
		return r.finish(aisle.ReasonCanceled), nil
	}
	if err != nil {
		r.summary.Errors = append(r.summary.Errors, aisle.NewQueryError(seed, err))
		r.emit(ProgressEvent{Type: ProgressFailed, Round: 1, Selector: seed, Error: err})
		if r.agg.Len() == 0 {
			return r.finish(aisle.ReasonSeedFailed), fmt.Errorf("seed query %q failed: %w", opts.SeedQuery, err)
		}
	} else {
		r.emit(ProgressEvent{Type: ProgressQueried, Round: 1, Selector: seed, Added: len(added), Total: r.agg.Len()})
	}

	// Category rounds
	for {
		switch {
		case r.agg.Full():
			return r.finish(aisle.ReasonProductCap), nil
		case r.frontier.Len() == 0:
			return r.finish(aisle.ReasonExhausted), nil
		case r.summary.Rounds >= opts.MaxRounds:
			return r.finish(aisle.ReasonRoundCap), nil
		}

		key, ok := r.frontier.Pop()
		if !ok {
			return r.finish(aisle.ReasonExhausted), nil
		}

		r.summary.Rounds++
		r.summary.CategoriesQueried = append(r.summary.CategoriesQueried, key)

		sel := aisle.CategorySelector(key)
		added, err := r.query(ctx, sel)
		if ctx.Err() != nil {
			return r.finish(aisle.ReasonCanceled), nil
		}
		if err != nil {
			// Failed categories don't stop the run
			r.summary.Errors = append(r.summary.Errors, aisle.NewQueryError(sel, err))
			r.emit(ProgressEvent{Type: ProgressFailed, Round: r.summary.Rounds, Selector: sel, Error: err})
			continue
		}
		r.emit(ProgressEvent{Type: ProgressQueried, Round: r.summary.Rounds, Selector: sel, Added: len(added), Total: r.agg.Len()})
	}
}

// query pages through sel, folding each batch into the aggregator. Newly
// added products are hydrated when a Hydrator is configured, and the
// category keys they carry are pushed onto the frontier. Products collected
// before a mid-query failure are kept and their categories still queued.
func (r *run) query(ctx context.Context, sel aisle.Selector) ([]aisle.Product, error) {
	var added []aisle.Product
	_, err := r.pager.Each(ctx, sel, func(batch []aisle.Product) bool {
		added = append(added, r.agg.Merge(batch)...)
		return !r.agg.Full()
	})

	r.hydrate(ctx, added)

	for _, key := range ExtractCategories(added) {
		r.frontier.Push(key)
	}

	return added, err
}

// hydrate enriches newly added products in place. A product whose detail
// fetch fails stays in the run unenriched; the failure is only counted.
func (r *run) hydrate(ctx context.Context, added []aisle.Product) {
	if r.engine.Hydrator == nil {
		return
	}
	for i, p := range added {
		if ctx.Err() != nil {
			return
		}
		if r.engine.RateLimiter != nil {
			if err := r.engine.RateLimiter.Wait(ctx, aisle.LimitDetail); err != nil {
				return
			}
		}
		hydrated, err := HydrateWithRetryDelays(ctx, p, r.engine.Hydrator.Hydrate, r.engine.Logger, r.delays)
		if err != nil {
			r.summary.HydrationFailures++
			continue
		}
		added[i] = hydrated
		r.agg.Replace(hydrated)
	}
}

// finish stamps the summary and packages the collected products.
func (r *run) finish(reason aisle.TerminationReason) *Result {
	r.summary.Reason = reason
	r.summary.Duplicates, r.summary.Changed = r.agg.DupStats()
	r.summary.FinishedAt = time.Now().UTC()
	r.emit(ProgressEvent{Type: ProgressFinished, Round: r.summary.Rounds, Total: r.agg.Len()})
	return &Result{
		Products: r.agg.Products(),
		Summary:  r.summary,
	}
}

func (r *run) emit(event ProgressEvent) {
	if r.progress != nil {
		r.progress(event)
	}
}
