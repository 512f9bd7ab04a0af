package aisle

import "context"

// Selector identifies what to ask a source for: a free-text search or a
// category listing. Exactly one of the two fields is set.
type Selector struct {
	Query    string
	Category CategoryKey
}

// QuerySelector returns a selector for a free-text search.
func QuerySelector(query string) Selector {
	return Selector{Query: query}
}

// CategorySelector returns a selector for a category listing.
func CategorySelector(key CategoryKey) Selector {
	return Selector{Category: key}
}

// IsCategory reports whether the selector targets a category listing.
func (s Selector) IsCategory() bool {
	return s.Category != ""
}

// String returns a short form of the selector for logs and error records.
func (s Selector) String() string {
	if s.IsCategory() {
		return "category:" + string(s.Category)
	}
	return "query:" + s.Query
}

// PageFetcher retrieves pages of products from a catalog source.
type PageFetcher interface {
	// FetchPage returns up to limit products for sel starting at offset.
	// An empty batch means the source has no further results for sel.
	//
	// Returns an ERATELIMIT or EUNAVAILABLE error for transient failures
	// that are worth retrying, EINVALID or ENOTFOUND otherwise.
	FetchPage(ctx context.Context, sel Selector, offset, limit int) ([]Product, error)
}

// Hydrator enriches a product with its detail record.
type Hydrator interface {
	// Hydrate fetches the detail record for p and returns the enriched
	// product. The returned product keeps the identity of p.
	Hydrate(ctx context.Context, p Product) (Product, error)
}
