package discover

import (
	"strings"
	"sync"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/bloom"
)

// Compile-time interface verification.
var _ aisle.CategoryFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO category queue with Bloom filter
// deduplication. FIFO order is what makes a discovery run deterministic for
// a given sequence of source responses.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []aisle.CategoryKey
}

// NewFrontier creates a new Frontier sized for n expected categories
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push adds a category to the frontier.
// Returns false if the category has already been seen. Keys are trimmed
// before deduplication and empty keys are rejected.
func (f *Frontier) Push(key aisle.CategoryKey) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key = aisle.CategoryKey(strings.TrimSpace(string(key)))
	if key == "" {
		return false
	}

	if f.seen.Test(string(key)) {
		return false
	}
	f.seen.Add(string(key))

	f.queue = append(f.queue, key)
	return true
}

// Pop returns the oldest queued category.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (aisle.CategoryKey, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	key := f.queue[0]
	f.queue = f.queue[1:]
	return key, true
}

// Len returns the number of categories in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the category has been queried or queued.
func (f *Frontier) Seen(key aisle.CategoryKey) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(strings.TrimSpace(string(key)))
}
