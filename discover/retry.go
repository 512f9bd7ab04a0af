package discover

import (
	"context"
	"time"

	"github.com/RichardMcSorley/aisle"
)

// FetchPageFunc is the signature for a page fetch function.
type FetchPageFunc func(ctx context.Context, sel aisle.Selector, offset, limit int) ([]aisle.Product, error)

// HydrateFunc is the signature for a product detail fetch function.
type HydrateFunc func(ctx context.Context, p aisle.Product) (aisle.Product, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Backoff returns n delays starting at base and doubling each step, capped
// at max. It is the schedule behind Options.MaxRetries, BaseBackoff and
// MaxBackoff. The result is never nil: with no retries it is an empty
// schedule, distinct from the nil that asks Pager for default delays.
func Backoff(base, max time.Duration, n int) []time.Duration {
	if n <= 0 || base <= 0 {
		return []time.Duration{}
	}
	delays := make([]time.Duration, n)
	d := base
	for i := range delays {
		if d >= max {
			d = max
			delays[i] = d
			continue
		}
		delays[i] = d
		d *= 2
	}
	return delays
}

// FetchPageWithRetry fetches a page with exponential backoff retry logic.
// It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
// The logger function, if provided, is called for each retry attempt.
func FetchPageWithRetry(ctx context.Context, sel aisle.Selector, offset, limit int, fetch FetchPageFunc, logger LogFunc) ([]aisle.Product, error) {
	return FetchPageWithRetryDelays(ctx, sel, offset, limit, fetch, logger, DefaultRetryDelays())
}

// FetchPageWithRetryDelays is like FetchPageWithRetry but allows configurable
// delays. This is useful for testing without waiting for real delays.
//
// Only transient errors (ERATELIMIT, EUNAVAILABLE) are retried; any other
// error is returned as is after the first attempt. When all attempts fail
// the last error is returned wrapped in an EEXHAUSTED error.
func FetchPageWithRetryDelays(ctx context.Context, sel aisle.Selector, offset, limit int, fetch FetchPageFunc, logger LogFunc, delays []time.Duration) ([]aisle.Product, error) {
	var batch []aisle.Product
	err := retryWithDelays(ctx, sel.String(), logger, delays, func(ctx context.Context) error {
		var err error
		batch, err = fetch(ctx, sel, offset, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// HydrateWithRetryDelays fetches a product's detail record with the same
// retry semantics as FetchPageWithRetryDelays.
func HydrateWithRetryDelays(ctx context.Context, p aisle.Product, hydrate HydrateFunc, logger LogFunc, delays []time.Duration) (aisle.Product, error) {
	var hydrated aisle.Product
	err := retryWithDelays(ctx, "product:"+p.ID, logger, delays, func(ctx context.Context) error {
		var err error
		hydrated, err = hydrate(ctx, p)
		return err
	})
	if err != nil {
		return aisle.Product{}, err
	}
	return hydrated, nil
}

func retryWithDelays(ctx context.Context, desc string, logger LogFunc, delays []time.Duration, op func(ctx context.Context) error) error {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// Permanent failures are not worth repeating
		if !aisle.Retryable(err) {
			return err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Log retry
		if logger != nil {
			logger("  retry %s (attempt %d): %v", desc, attempt+2, err)
		}

		// Wait before next attempt, stretching to the source's Retry-After
		// hint when it asked for more than the scheduled delay. The hint is
		// still capped at the schedule's largest delay.
		wait := delays[attempt]
		if hint, ok := aisle.RetryAfter(err); ok && hint > wait {
			wait = min(hint, delays[len(delays)-1])
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return aisle.ExhaustedError(lastErr, "%s: retry attempts exhausted", desc)
}
