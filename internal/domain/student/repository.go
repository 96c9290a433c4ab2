package student

import "context"

type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByAddress(ctx context.Context, address string) (*Student, error)
	GetByAddressForUpdate(ctx context.Context, address string) (*Student, error)
	Save(ctx context.Context, s *Student) error
}
