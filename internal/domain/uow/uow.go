package uow

import (
	"context"

	"edulend-backend/internal/domain/access"
	"edulend-backend/internal/domain/achievement"
	"edulend-backend/internal/domain/event"
	"edulend-backend/internal/domain/loan"
	"edulend-backend/internal/domain/pool"
	"edulend-backend/internal/domain/student"
	"edulend-backend/internal/domain/token"
)

type Repos struct {
	Students     student.Repository
	Loans        loan.Repository
	Pool         pool.Repository
	Tokens       token.Repository
	Achievements achievement.Repository
	Access       access.Repository
	Events       event.Repository
}

// UnitOfWork runs fn against transaction-bound repositories. All mutations
// commit together or not at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
