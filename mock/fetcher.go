package mock

import (
	"context"

	"github.com/RichardMcSorley/aisle"
)

var _ aisle.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of aisle.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, sel aisle.Selector, offset, limit int) ([]aisle.Product, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, sel aisle.Selector, offset, limit int) ([]aisle.Product, error) {
	return f.FetchPageFn(ctx, sel, offset, limit)
}

var _ aisle.Hydrator = (*Hydrator)(nil)

// Hydrator is a mock implementation of aisle.Hydrator.
type Hydrator struct {
	HydrateFn func(ctx context.Context, p aisle.Product) (aisle.Product, error)
}

func (h *Hydrator) Hydrate(ctx context.Context, p aisle.Product) (aisle.Product, error) {
	return h.HydrateFn(ctx, p)
}
