package sqlite

import (
	"context"

	"github.com/RichardMcSorley/aisle"
)

// Compile-time interface verification.
var _ aisle.ProductService = (*ProductService)(nil)

// ProductService implements aisle.ProductService using SQLite.
type ProductService struct {
	db *DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *DB) *ProductService {
	return &ProductService{db: db}
}

// CreateProducts stores products for a run. The slice index becomes the
// stored position so the catalog order survives the round trip.
func (s *ProductService) CreateProducts(ctx context.Context, runID string, products []aisle.Product) error {
	if runID == "" {
		return aisle.Errorf(aisle.EINVALID, "run ID required")
	}

	for i, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}

		categories, err := encodeJSON(p.Categories, "categories")
		if err != nil {
			return err
		}
		detail, err := encodeJSON(p.Detail, "detail")
		if err != nil {
			return err
		}

		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO products (run_id, position, product_id, name, url, price, categories, detail, fingerprint)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, i, p.ID, p.Name, p.URL, p.Price, categories, detail, aisle.Fingerprint(p)); err != nil {
			return err
		}
	}

	return nil
}

// FindProductsByRun retrieves the products stored for a run in catalog order.
func (s *ProductService) FindProductsByRun(ctx context.Context, runID string) ([]aisle.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, url, price, categories, detail
		FROM products
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []aisle.Product
	for rows.Next() {
		var p aisle.Product
		var categories, detail string

		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.Price, &categories, &detail); err != nil {
			return nil, err
		}

		if err := decodeJSON(categories, &p.Categories, "categories"); err != nil {
			return nil, err
		}
		if err := decodeJSON(detail, &p.Detail, "detail"); err != nil {
			return nil, err
		}

		products = append(products, p)
	}

	return products, rows.Err()
}
