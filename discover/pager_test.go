package discover_test

import (
	"context"
	"testing"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/discover"
	"github.com/RichardMcSorley/aisle/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPager_Each(t *testing.T) {
	t.Parallel()

	t.Run("pages until the source drains", func(t *testing.T) {
		t.Parallel()

		var offsets []int
		fetcher := &mock.PageFetcher{
			FetchPageFn: func(_ context.Context, _ aisle.Selector, offset, limit int) ([]aisle.Product, error) {
				offsets = append(offsets, offset)
				if offset >= 2*limit {
					return nil, nil
				}
				return []aisle.Product{{ID: "p1"}, {ID: "p2"}}, nil
			},
		}

		p := &discover.Pager{Fetcher: fetcher, PerPage: 60, PageCap: 20, RetryDelays: noDelays}

		var visited int
		pages, err := p.Each(context.Background(), aisle.QuerySelector("milk"), func(batch []aisle.Product) bool {
			visited++
			return true
		})

		require.NoError(t, err)
		assert.Equal(t, 3, pages, "two full pages plus the empty one")
		assert.Equal(t, 2, visited, "empty batch is not visited")
		assert.Equal(t, []int{0, 60, 120}, offsets)
	})

	t.Run("respects the page cap", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.PageFetcher{
			FetchPageFn: func(_ context.Context, _ aisle.Selector, offset, _ int) ([]aisle.Product, error) {
				calls++
				return []aisle.Product{{ID: "p1"}}, nil
			},
		}

		p := &discover.Pager{Fetcher: fetcher, PerPage: 60, PageCap: 2, RetryDelays: noDelays}

		pages, err := p.Each(context.Background(), aisle.QuerySelector("milk"), func([]aisle.Product) bool {
			return true
		})

		require.NoError(t, err)
		assert.Equal(t, 2, pages)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops when visit returns false", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.PageFetcher{
			FetchPageFn: func(_ context.Context, _ aisle.Selector, _, _ int) ([]aisle.Product, error) {
				calls++
				return []aisle.Product{{ID: "p1"}}, nil
			},
		}

		p := &discover.Pager{Fetcher: fetcher, PerPage: 60, PageCap: 20, RetryDelays: noDelays}

		pages, err := p.Each(context.Background(), aisle.QuerySelector("milk"), func([]aisle.Product) bool {
			return false
		})

		require.NoError(t, err)
		assert.Equal(t, 1, pages)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns the error that ended paging", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.PageFetcher{
			FetchPageFn: func(_ context.Context, _ aisle.Selector, offset, _ int) ([]aisle.Product, error) {
				if offset == 0 {
					return []aisle.Product{{ID: "p1"}}, nil
				}
				return nil, aisle.Errorf(aisle.EUNAVAILABLE, "source unreachable")
			},
		}

		p := &discover.Pager{Fetcher: fetcher, PerPage: 60, PageCap: 20, RetryDelays: noDelays}

		var collected []aisle.Product
		pages, err := p.Each(context.Background(), aisle.QuerySelector("milk"), func(batch []aisle.Product) bool {
			collected = append(collected, batch...)
			return true
		})

		require.Error(t, err)
		assert.Equal(t, aisle.EEXHAUSTED, aisle.ErrorCode(err))
		assert.Equal(t, 1, pages)
		assert.Len(t, collected, 1, "first page stays consumed")
	})

	t.Run("waits on the limiter before each page", func(t *testing.T) {
		t.Parallel()

		var keys []string
		limiter := &mock.Limiter{
			WaitFn: func(_ context.Context, key string) error {
				keys = append(keys, key)
				return nil
			},
		}
		fetcher := &mock.PageFetcher{
			FetchPageFn: func(_ context.Context, _ aisle.Selector, offset, limit int) ([]aisle.Product, error) {
				if offset >= limit {
					return nil, nil
				}
				return []aisle.Product{{ID: "p1"}}, nil
			},
		}

		p := &discover.Pager{Fetcher: fetcher, Limiter: limiter, PerPage: 60, PageCap: 20, RetryDelays: noDelays}

		pages, err := p.Each(context.Background(), aisle.QuerySelector("milk"), func([]aisle.Product) bool {
			return true
		})

		require.NoError(t, err)
		assert.Equal(t, 2, pages)
		assert.Equal(t, []string{aisle.LimitSearch, aisle.LimitSearch}, keys)
	})

	t.Run("stops when the limiter is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := &mock.Limiter{
			WaitFn: func(_ context.Context, _ string) error {
				return context.Canceled
			},
		}
		fetcher := &mock.PageFetcher{
			FetchPageFn: func(_ context.Context, _ aisle.Selector, _, _ int) ([]aisle.Product, error) {
				t.Fatal("fetch should not be called")
				return nil, nil
			},
		}

		p := &discover.Pager{Fetcher: fetcher, Limiter: limiter, PerPage: 60, PageCap: 20, RetryDelays: noDelays}

		pages, err := p.Each(context.Background(), aisle.QuerySelector("milk"), func([]aisle.Product) bool {
			return true
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, pages)
	})
}
