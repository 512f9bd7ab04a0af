package discover_test

import (
	"testing"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/discover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Merge(t *testing.T) {
	t.Parallel()

	t.Run("returns only newly added products", func(t *testing.T) {
		t.Parallel()

		agg := discover.NewAggregator(100, aisle.DedupKeepFirst)

		added := agg.Merge([]aisle.Product{{ID: "p1"}, {ID: "p2"}})
		assert.Len(t, added, 2)

		added = agg.Merge([]aisle.Product{{ID: "p2"}, {ID: "p3"}})
		require.Len(t, added, 1)
		assert.Equal(t, "p3", added[0].ID)

		assert.Equal(t, 3, agg.Len())
	})

	t.Run("keep-first ignores later copies", func(t *testing.T) {
		t.Parallel()

		agg := discover.NewAggregator(100, aisle.DedupKeepFirst)

		agg.Merge([]aisle.Product{{ID: "p1", Price: "3.49"}})
		agg.Merge([]aisle.Product{{ID: "p1", Price: "3.79"}})

		products := agg.Products()
		require.Len(t, products, 1)
		assert.Equal(t, "3.49", products[0].Price)
	})

	t.Run("keep-latest refreshes the held copy in place", func(t *testing.T) {
		t.Parallel()

		agg := discover.NewAggregator(100, aisle.DedupKeepLatest)

		agg.Merge([]aisle.Product{{ID: "p1", Price: "3.49"}, {ID: "p2", Price: "1.99"}})
		agg.Merge([]aisle.Product{{ID: "p1", Price: "3.79"}})

		products := agg.Products()
		require.Len(t, products, 2)
		assert.Equal(t, "p1", products[0].ID, "refreshed product keeps its position")
		assert.Equal(t, "3.79", products[0].Price)
		assert.Equal(t, "p2", products[1].ID)
	})

	t.Run("drops products without IDs", func(t *testing.T) {
		t.Parallel()

		agg := discover.NewAggregator(100, aisle.DedupKeepFirst)

		added := agg.Merge([]aisle.Product{{Name: "no id"}, {ID: "p1"}})

		assert.Len(t, added, 1)
		assert.Equal(t, 1, agg.Len())
	})

	t.Run("admits nothing once full", func(t *testing.T) {
		t.Parallel()

		agg := discover.NewAggregator(2, aisle.DedupKeepFirst)

		added := agg.Merge([]aisle.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}})

		assert.Len(t, added, 2)
		assert.True(t, agg.Full())
		assert.Equal(t, 2, agg.Len())

		added = agg.Merge([]aisle.Product{{ID: "p4"}})
		assert.Empty(t, added)
		assert.Equal(t, 2, agg.Len())
	})

	t.Run("full collection still counts duplicates", func(t *testing.T) {
		t.Parallel()

		agg := discover.NewAggregator(1, aisle.DedupKeepFirst)

		agg.Merge([]aisle.Product{{ID: "p1", Price: "3.49"}})
		agg.Merge([]aisle.Product{{ID: "p1", Price: "3.49"}, {ID: "p1", Price: "3.79"}})

		repeats, changed := agg.DupStats()
		assert.Equal(t, 1, repeats)
		assert.Equal(t, 1, changed)
	})

	t.Run("preserves discovery order", func(t *testing.T) {
		t.Parallel()

		agg := discover.NewAggregator(100, aisle.DedupKeepFirst)

		agg.Merge([]aisle.Product{{ID: "p3"}, {ID: "p1"}})
		agg.Merge([]aisle.Product{{ID: "p2"}})

		var ids []string
		for _, p := range agg.Products() {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"p3", "p1", "p2"}, ids)
	})
}

func TestAggregator_DupStats(t *testing.T) {
	t.Parallel()

	agg := discover.NewAggregator(100, aisle.DedupKeepFirst)

	agg.Merge([]aisle.Product{{ID: "p1", Price: "3.49"}})
	agg.Merge([]aisle.Product{{ID: "p1", Price: "3.49"}}) // identical repeat
	agg.Merge([]aisle.Product{{ID: "p1", Price: "3.79"}}) // changed record

	repeats, changed := agg.DupStats()
	assert.Equal(t, 1, repeats)
	assert.Equal(t, 1, changed)
}

func TestAggregator_Replace(t *testing.T) {
	t.Parallel()

	agg := discover.NewAggregator(100, aisle.DedupKeepFirst)
	agg.Merge([]aisle.Product{{ID: "p1"}, {ID: "p2"}})

	ok := agg.Replace(aisle.Product{ID: "p1", Detail: map[string]any{"brand": "Friendly Farms"}})
	assert.True(t, ok)

	products := agg.Products()
	assert.Equal(t, "p1", products[0].ID, "replaced product keeps its position")
	assert.NotNil(t, products[0].Detail)

	repeats, changed := agg.DupStats()
	assert.Zero(t, repeats, "replace is not a duplicate")
	assert.Zero(t, changed)

	assert.False(t, agg.Replace(aisle.Product{ID: "missing"}))
}
