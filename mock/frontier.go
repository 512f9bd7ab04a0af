package mock

import (
	"context"

	"github.com/RichardMcSorley/aisle"
)

var _ aisle.CategoryFrontier = (*CategoryFrontier)(nil)

// CategoryFrontier is a mock implementation of aisle.CategoryFrontier.
type CategoryFrontier struct {
	PushFn func(key aisle.CategoryKey) bool
	PopFn  func() (aisle.CategoryKey, bool)
	LenFn  func() int
	SeenFn func(key aisle.CategoryKey) bool
}

func (f *CategoryFrontier) Push(key aisle.CategoryKey) bool {
	return f.PushFn(key)
}

func (f *CategoryFrontier) Pop() (aisle.CategoryKey, bool) {
	return f.PopFn()
}

func (f *CategoryFrontier) Len() int {
	return f.LenFn()
}

func (f *CategoryFrontier) Seen(key aisle.CategoryKey) bool {
	return f.SeenFn(key)
}

var _ aisle.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of aisle.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context, key string) error
}

func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.WaitFn(ctx, key)
}
