package aisle

import "context"

// CategoryFrontier manages the queue of categories waiting to be queried,
// with deduplication.
type CategoryFrontier interface {
	// Push adds a category to the frontier.
	// Returns false if the category has already been seen.
	Push(key CategoryKey) bool

	// Pop returns the oldest queued category.
	// Returns false if the frontier is empty.
	Pop() (CategoryKey, bool)

	// Len returns the number of categories in the queue.
	Len() int

	// Seen returns true if the category has been queried or queued.
	Seen(key CategoryKey) bool
}

// Limiter paces requests to a source, keyed by request class.
type Limiter interface {
	// Wait blocks until the rate limit allows the next request for key.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, key string) error
}

// Request classes passed to Limiter by the discovery engine.
const (
	LimitSearch = "search"
	LimitDetail = "detail"
)
