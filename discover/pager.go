package discover

import (
	"context"
	"time"

	"github.com/RichardMcSorley/aisle"
)

// Pager walks a selector's results page by page using offset pagination.
type Pager struct {
	Fetcher     aisle.PageFetcher
	Limiter     aisle.Limiter
	PerPage     int
	PageCap     int
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Each fetches pages for sel and passes each batch to visit. Paging stops
// when the source returns an empty batch, the page cap is reached, visit
// returns false, or a fetch fails after retries.
//
// It returns the number of pages fetched and the error that ended paging
// early, if any. Batches already passed to visit stay consumed on error.
func (p *Pager) Each(ctx context.Context, sel aisle.Selector, visit func(batch []aisle.Product) bool) (int, error) {
	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	pages := 0
	offset := 0
	for pages < p.PageCap {
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx, aisle.LimitSearch); err != nil {
				return pages, err
			}
		}

		batch, err := FetchPageWithRetryDelays(ctx, sel, offset, p.PerPage, p.Fetcher.FetchPage, p.Logger, delays)
		if err != nil {
			return pages, err
		}
		pages++

		if len(batch) == 0 {
			break
		}
		if !visit(batch) {
			break
		}
		offset += p.PerPage
	}
	return pages, nil
}
