package pool

import "context"

type Repository interface {
	// GetStateForUpdate locks and returns the singleton row, creating it on
	// first use.
	GetStateForUpdate(ctx context.Context) (*State, error)
	GetState(ctx context.Context) (*State, error)
	SaveState(ctx context.Context, s *State) error

	CreatePosition(ctx context.Context, p *Position) error
	GetPosition(ctx context.Context, lender string) (*Position, error)
	GetPositionForUpdate(ctx context.Context, lender string) (*Position, error)
	ListPositionsForUpdate(ctx context.Context) ([]Position, error)
	SavePosition(ctx context.Context, p *Position) error
}
