package discover

import (
	"context"
	"sync"

	"github.com/RichardMcSorley/aisle"
	"golang.org/x/time/rate"
)

var _ aisle.Limiter = (*SourceLimiter)(nil)

// SourceLimiter provides per-class rate limiting using token buckets. It
// creates a separate rate limiter for each request class (search, detail),
// so paced search paging does not starve detail hydration and vice versa.
type SourceLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewSourceLimiter creates a new SourceLimiter with the specified requests
// per second limit. Each class gets its own limiter with a burst of 1 (no
// bursting allowed).
func NewSourceLimiter(rps float64) *SourceLimiter {
	return &SourceLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows the next request for key.
// Returns an error if the context is canceled before the wait completes.
func (s *SourceLimiter) Wait(ctx context.Context, key string) error {
	s.mu.Lock()
	limiter, ok := s.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.rps), 1)
		s.limiters[key] = limiter
	}
	s.mu.Unlock()

	return limiter.Wait(ctx)
}
