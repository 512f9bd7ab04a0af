package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("creates run with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := &aisle.Run{
			Profile:   "grocer",
			SeedQuery: "milk",
		}

		err := svc.CreateRun(ctx, run)
		require.NoError(t, err)

		assert.NotEmpty(t, run.ID, "ID should be generated")
		assert.False(t, run.StartedAt.IsZero(), "StartedAt should be set")
		assert.False(t, run.FinishedAt.IsZero(), "FinishedAt should be set")
	})

	t.Run("keeps a caller-assigned ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := &aisle.Run{
			ID:        "run-1",
			Profile:   "grocer",
			SeedQuery: "milk",
		}

		err := svc.CreateRun(ctx, run)
		require.NoError(t, err)
		assert.Equal(t, "run-1", run.ID)
	})

	t.Run("returns error for invalid run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := &aisle.Run{} // missing required fields

		err := svc.CreateRun(ctx, run)
		require.Error(t, err)
		assert.Equal(t, aisle.EINVALID, aisle.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns run when found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := &aisle.Run{
			Profile:      "grocer",
			SeedQuery:    "milk",
			Rounds:       3,
			Categories:   []aisle.CategoryKey{"dairy", "bakery"},
			ProductCount: 42,
			Reason:       aisle.ReasonExhausted,
			Errors: []aisle.QueryError{
				{Selector: "category:frozen", Code: aisle.EEXHAUSTED, Message: "retry attempts exhausted"},
			},
			StartedAt:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 8, 20, 10, 2, 30, 0, time.UTC),
		}
		require.NoError(t, svc.CreateRun(ctx, run))

		found, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, found.ID)
		assert.Equal(t, run.Profile, found.Profile)
		assert.Equal(t, run.SeedQuery, found.SeedQuery)
		assert.Equal(t, run.Rounds, found.Rounds)
		assert.Equal(t, run.Categories, found.Categories)
		assert.Equal(t, run.ProductCount, found.ProductCount)
		assert.Equal(t, run.Reason, found.Reason)
		assert.Equal(t, run.Errors, found.Errors)
		assert.Equal(t, run.StartedAt, found.StartedAt)
		assert.Equal(t, run.FinishedAt, found.FinishedAt)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		_, err := svc.FindRunByID(ctx, "nonexistent-id")
		require.Error(t, err)
		assert.Equal(t, aisle.ENOTFOUND, aisle.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns all runs with total count", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			run := &aisle.Run{
				Profile:   "grocer",
				SeedQuery: fmt.Sprintf("query-%d", i+1),
			}
			require.NoError(t, svc.CreateRun(ctx, run))
		}

		runs, n, err := svc.FindRuns(ctx, aisle.RunFilter{})
		require.NoError(t, err)
		assert.Len(t, runs, 3)
		assert.Equal(t, 3, n)
	})

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		older := &aisle.Run{
			Profile:   "grocer",
			SeedQuery: "older",
			StartedAt: time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC),
		}
		newer := &aisle.Run{
			Profile:   "grocer",
			SeedQuery: "newer",
			StartedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		}
		require.NoError(t, svc.CreateRun(ctx, older))
		require.NoError(t, svc.CreateRun(ctx, newer))

		runs, _, err := svc.FindRuns(ctx, aisle.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "newer", runs[0].SeedQuery)
		assert.Equal(t, "older", runs[1].SeedQuery)
	})

	t.Run("filters by profile", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		r1 := &aisle.Run{Profile: "grocer", SeedQuery: "milk"}
		r2 := &aisle.Run{Profile: "pharmacy", SeedQuery: "aspirin"}
		require.NoError(t, svc.CreateRun(ctx, r1))
		require.NoError(t, svc.CreateRun(ctx, r2))

		profile := "grocer"
		runs, n, err := svc.FindRuns(ctx, aisle.RunFilter{Profile: &profile})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, 1, n)
		assert.Equal(t, "grocer", runs[0].Profile)
	})

	t.Run("respects limit and offset while counting all matches", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			run := &aisle.Run{
				Profile:   "grocer",
				SeedQuery: fmt.Sprintf("query-%d", i+1),
			}
			require.NoError(t, svc.CreateRun(ctx, run))
		}

		runs, n, err := svc.FindRuns(ctx, aisle.RunFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
		assert.Equal(t, 5, n)
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := &aisle.Run{Profile: "grocer", SeedQuery: "milk"}
		require.NoError(t, svc.CreateRun(ctx, run))

		err := svc.DeleteRun(ctx, run.ID)
		require.NoError(t, err)

		_, err = svc.FindRunByID(ctx, run.ID)
		assert.Equal(t, aisle.ENOTFOUND, aisle.ErrorCode(err))
	})

	t.Run("deletes the products stored for the run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		productSvc := sqlite.NewProductService(db)
		ctx := context.Background()

		run := &aisle.Run{Profile: "grocer", SeedQuery: "milk"}
		require.NoError(t, svc.CreateRun(ctx, run))
		require.NoError(t, productSvc.CreateProducts(ctx, run.ID, []aisle.Product{
			{ID: "m1", Name: "Whole Milk"},
		}))

		require.NoError(t, svc.DeleteRun(ctx, run.ID))

		products, err := productSvc.FindProductsByRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		err := svc.DeleteRun(ctx, "nonexistent-id")
		require.Error(t, err)
		assert.Equal(t, aisle.ENOTFOUND, aisle.ErrorCode(err))
	})
}
