package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/RichardMcSorley/aisle"
)

// Ensure LoggingHydrator implements aisle.Hydrator.
var _ aisle.Hydrator = (*LoggingHydrator)(nil)

// LoggingHydrator wraps a Hydrator with request logging.
type LoggingHydrator struct {
	next   aisle.Hydrator
	logger *slog.Logger
}

// NewLoggingHydrator creates a new LoggingHydrator.
func NewLoggingHydrator(next aisle.Hydrator, logger *slog.Logger) *LoggingHydrator {
	return &LoggingHydrator{next: next, logger: logger}
}

// Hydrate delegates to the wrapped hydrator and logs the operation.
func (h *LoggingHydrator) Hydrate(ctx context.Context, p aisle.Product) (hydrated aisle.Product, err error) {
	defer func(begin time.Time) {
		h.logger.Info("hydrate",
			"product", p.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return h.next.Hydrate(ctx, p)
}
