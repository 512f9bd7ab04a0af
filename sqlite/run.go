package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/RichardMcSorley/aisle"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ aisle.RunService = (*RunService)(nil)

// RunService implements aisle.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run.
func (s *RunService) CreateRun(ctx context.Context, run *aisle.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = run.StartedAt
	}

	categories, err := encodeJSON(run.Categories, "categories")
	if err != nil {
		return err
	}
	queryErrors, err := encodeJSON(run.Errors, "errors")
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, profile, seed_query, rounds, categories, product_count, reason, errors, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Profile, run.SeedQuery, run.Rounds, categories, run.ProductCount, string(run.Reason), queryErrors,
		run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339))

	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*aisle.Run, error) {
	var run aisle.Run
	var categories, queryErrors, startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile, seed_query, rounds, categories, product_count, reason, errors, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Profile, &run.SeedQuery, &run.Rounds, &categories,
		&run.ProductCount, &run.Reason, &queryErrors, &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, aisle.Errorf(aisle.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if err := decodeJSON(categories, &run.Categories, "categories"); err != nil {
		return nil, err
	}
	if err := decodeJSON(queryErrors, &run.Errors, "errors"); err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter aisle.RunFilter) ([]*aisle.Run, int, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, profile, seed_query, rounds, categories, product_count, reason, errors, started_at, finished_at, COUNT(*) OVER() FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Profile != nil {
		query.WriteString(" AND profile = ?")
		args = append(args, *filter.Profile)
	}

	query.WriteString(" ORDER BY started_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*aisle.Run
	var n int
	for rows.Next() {
		var run aisle.Run
		var categories, queryErrors, startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.Profile, &run.SeedQuery, &run.Rounds, &categories,
			&run.ProductCount, &run.Reason, &queryErrors, &startedAt, &finishedAt, &n); err != nil {
			return nil, 0, err
		}

		if err := decodeJSON(categories, &run.Categories, "categories"); err != nil {
			return nil, 0, err
		}
		if err := decodeJSON(queryErrors, &run.Errors, "errors"); err != nil {
			return nil, 0, err
		}

		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, 0, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, 0, err
		}

		runs = append(runs, &run)
	}

	return runs, n, rows.Err()
}

// DeleteRun permanently removes a run. Products stored for the run are
// removed by the foreign key cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return aisle.Errorf(aisle.ENOTFOUND, "run not found")
	}

	return nil
}
