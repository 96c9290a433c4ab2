package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	ListByStudent(ctx context.Context, address string) ([]Loan, error)
	CountByStudent(ctx context.Context, address string) (int64, error)
	CountByStudentAndStatus(ctx context.Context, address string, st Status) (int64, error)
	Save(ctx context.Context, l *Loan) error
}
