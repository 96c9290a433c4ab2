package achievement

import "context"

type Repository interface {
	Create(ctx context.Context, a *Achievement) error
	GetByTokenID(ctx context.Context, tokenID uint64) (*Achievement, error)
	ListByOwner(ctx context.Context, owner string) ([]Achievement, error)
	CountByOwnerAndType(ctx context.Context, owner string, t Type) (int64, error)
	TotalSupply(ctx context.Context) (int64, error)
}
