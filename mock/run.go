package mock

import (
	"context"

	"github.com/RichardMcSorley/aisle"
)

var _ aisle.RunService = (*RunService)(nil)

// RunService is a mock implementation of aisle.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *aisle.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*aisle.Run, error)
	FindRunsFn    func(ctx context.Context, filter aisle.RunFilter) ([]*aisle.Run, int, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *aisle.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*aisle.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter aisle.RunFilter) ([]*aisle.Run, int, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
