package mock

import (
	"context"

	"github.com/RichardMcSorley/aisle"
)

var _ aisle.ProductService = (*ProductService)(nil)

// ProductService is a mock implementation of aisle.ProductService.
type ProductService struct {
	CreateProductsFn    func(ctx context.Context, runID string, products []aisle.Product) error
	FindProductsByRunFn func(ctx context.Context, runID string) ([]aisle.Product, error)
}

func (s *ProductService) CreateProducts(ctx context.Context, runID string, products []aisle.Product) error {
	return s.CreateProductsFn(ctx, runID, products)
}

func (s *ProductService) FindProductsByRun(ctx context.Context, runID string) ([]aisle.Product, error) {
	return s.FindProductsByRunFn(ctx, runID)
}
