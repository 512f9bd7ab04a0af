package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/RichardMcSorley/aisle"
)

// Ensure LoggingPageFetcher implements aisle.PageFetcher.
var _ aisle.PageFetcher = (*LoggingPageFetcher)(nil)

// LoggingPageFetcher wraps a PageFetcher with request logging.
type LoggingPageFetcher struct {
	next   aisle.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next aisle.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage delegates to the wrapped fetcher and logs the operation.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, sel aisle.Selector, offset, limit int) (products []aisle.Product, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch page",
			"selector", sel.String(),
			"offset", offset,
			"count", len(products),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchPage(ctx, sel, offset, limit)
}
