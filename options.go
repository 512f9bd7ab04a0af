package aisle

import (
	"strings"
	"time"
)

// DedupPolicy controls which copy of a duplicate product wins.
type DedupPolicy string

const (
	// DedupKeepFirst keeps the first copy of a product and ignores later
	// copies with the same ID.
	DedupKeepFirst DedupPolicy = "keep-first"

	// DedupKeepLatest replaces a product's fields with the most recent
	// copy. The product keeps its original position in the catalog.
	DedupKeepLatest DedupPolicy = "keep-latest"
)

// Options configures a discovery run.
type Options struct {
	// SeedQuery is the free-text search that starts the run.
	SeedQuery string

	// MaxProducts caps the number of unique products collected.
	MaxProducts int

	// MaxRounds caps the number of query rounds, the seed included.
	MaxRounds int

	// PerPage is the page size requested from the source.
	PerPage int

	// PageCap caps the number of pages fetched for a single selector.
	PageCap int

	// MaxRetries is the number of retries after a failed fetch attempt.
	// Zero disables retrying.
	MaxRetries int

	// BaseBackoff is the delay before the first retry. Each further retry
	// doubles the delay.
	BaseBackoff time.Duration

	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration

	// DedupPolicy controls which copy of a duplicate product wins.
	DedupPolicy DedupPolicy
}

// DefaultOptions returns run options for seedQuery with the standard caps.
func DefaultOptions(seedQuery string) Options {
	return Options{
		SeedQuery:   seedQuery,
		MaxProducts: 1000,
		MaxRounds:   10,
		PerPage:     60,
		PageCap:     20,
		MaxRetries:  3,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
		DedupPolicy: DedupKeepFirst,
	}
}

// Validate returns an error if the options cannot drive a run.
func (o Options) Validate() error {
	if strings.TrimSpace(o.SeedQuery) == "" {
		return Errorf(EINVALID, "seed query required")
	}
	if o.MaxProducts <= 0 {
		return Errorf(EINVALID, "max products must be positive")
	}
	if o.MaxRounds <= 0 {
		return Errorf(EINVALID, "max rounds must be positive")
	}
	if o.PerPage <= 0 {
		return Errorf(EINVALID, "per page must be positive")
	}
	if o.PageCap <= 0 {
		return Errorf(EINVALID, "page cap must be positive")
	}
	if o.MaxRetries < 0 {
		return Errorf(EINVALID, "max retries must not be negative")
	}
	if o.MaxRetries > 0 {
		if o.BaseBackoff <= 0 {
			return Errorf(EINVALID, "base backoff must be positive")
		}
		if o.MaxBackoff < o.BaseBackoff {
			return Errorf(EINVALID, "max backoff must not be below base backoff")
		}
	}
	switch o.DedupPolicy {
	case DedupKeepFirst, DedupKeepLatest:
	default:
		return Errorf(EINVALID, "unknown dedup policy %q", o.DedupPolicy)
	}
	return nil
}
