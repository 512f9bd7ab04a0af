package mock

import (
	"context"

	"github.com/RichardMcSorley/aisle"
)

var _ aisle.CatalogWriter = (*CatalogWriter)(nil)

// CatalogWriter is a mock implementation of aisle.CatalogWriter.
type CatalogWriter struct {
	WriteCatalogFn func(ctx context.Context, run *aisle.Run, products []aisle.Product) (string, error)
}

func (w *CatalogWriter) WriteCatalog(ctx context.Context, run *aisle.Run, products []aisle.Product) (string, error) {
	return w.WriteCatalogFn(ctx, run, products)
}
