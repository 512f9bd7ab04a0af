package aisle

import (
	"context"
	"time"
)

// TerminationReason explains why a discovery run stopped.
type TerminationReason string

const (
	// ReasonExhausted means the category frontier drained before any cap
	// was hit.
	ReasonExhausted TerminationReason = "exhausted"

	// ReasonProductCap means the run collected MaxProducts unique products.
	ReasonProductCap TerminationReason = "product_cap"

	// ReasonRoundCap means the run issued MaxRounds query rounds.
	ReasonRoundCap TerminationReason = "round_cap"

	// ReasonCanceled means the context was canceled mid-run.
	ReasonCanceled TerminationReason = "canceled"

	// ReasonSeedFailed means the seed query failed and produced nothing.
	ReasonSeedFailed TerminationReason = "seed_failed"
)

// QueryError records a query that failed during a run. Failed category
// queries do not stop a run, so a summary may carry several of these.
type QueryError struct {
	Selector string `json:"selector"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// NewQueryError builds a QueryError from the selector that failed and the
// error it produced.
func NewQueryError(sel Selector, err error) QueryError {
	return QueryError{
		Selector: sel.String(),
		Code:     ErrorCode(err),
		Message:  err.Error(),
	}
}

// Run records a completed discovery run.
type Run struct {
	ID           string            `json:"id"`
	Profile      string            `json:"profile"`
	SeedQuery    string            `json:"seedQuery"`
	Rounds       int               `json:"rounds"`
	Categories   []CategoryKey     `json:"categories"`
	ProductCount int               `json:"productCount"`
	Reason       TerminationReason `json:"reason"`
	Errors       []QueryError      `json:"errors,omitempty"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   time.Time         `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Profile == "" {
		return Errorf(EINVALID, "run profile required")
	}
	if r.SeedQuery == "" {
		return Errorf(EINVALID, "run seed query required")
	}
	return nil
}

// RunFilter represents a filter used by FindRuns().
type RunFilter struct {
	ID      *string
	Profile *string

	Offset int
	Limit  int
}

// RunService represents a service for managing stored runs.
type RunService interface {
	// CreateRun creates a new run, assigning an ID when unset.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first. Also
	// returns the total count of matches which may differ from the number
	// of returned runs if the Limit field is set.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, int, error)

	// DeleteRun removes a run and the products stored for it.
	// Returns ENOTFOUND if run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// ProductService represents a service for managing products stored per run.
type ProductService interface {
	// CreateProducts stores products for a run, preserving their order.
	CreateProducts(ctx context.Context, runID string, products []Product) error

	// FindProductsByRun retrieves the products stored for a run in their
	// original catalog order.
	FindProductsByRun(ctx context.Context, runID string) ([]Product, error)
}

// CatalogWriter exports the products of a run.
type CatalogWriter interface {
	// WriteCatalog writes products collected by run and returns the path
	// of the written file.
	WriteCatalog(ctx context.Context, run *Run, products []Product) (string, error)
}
