package pool

import (
	"context"
	"errors"

	poolDomain "edulend-backend/internal/domain/pool"
	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/domain/uow"
	tokenuc "edulend-backend/internal/usecase/token"

	"gorm.io/gorm"
)

type Usecase struct {
	uow      uow.UnitOfWork
	pool     poolDomain.Repository
	treasury string
}

func NewUsecase(tx uow.UnitOfWork, repo poolDomain.Repository, treasury string) *Usecase {
	return &Usecase{uow: tx, pool: repo, treasury: treasury}
}

type LenderStatsDTO struct {
	LenderAddress string `json:"lender_address"`
	Contributed   int64  `json:"contributed"`
	Earned        int64  `json:"earned"`
}

type StateDTO struct {
	TotalPoolBalance int64 `json:"total_pool_balance"`
	TotalLentOut     int64 `json:"total_lent_out"`
	Available        int64 `json:"available"`
}

// Contribute pulls amount of MUSD from the lender into the treasury via the
// allowance the lender granted the treasury, then grows the lender position
// and the pool total.
func (u *Usecase) Contribute(ctx context.Context, caller string, amount int64) (*LenderStatsDTO, error) {
	if amount <= 0 {
		return nil, tokenDomain.ErrZeroAmount
	}
	var dto *LenderStatsDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := tokenuc.SpendAllowance(ctx, r, tokenDomain.SymbolMUSD, caller, u.treasury, amount); err != nil {
			return err
		}
		if err := tokenuc.Move(ctx, r, tokenDomain.SymbolMUSD, caller, u.treasury, amount); err != nil {
			return err
		}

		pos, err := r.Pool.GetPositionForUpdate(ctx, caller)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			pos = &poolDomain.Position{LenderAddress: caller}
			if err := r.Pool.CreatePosition(ctx, pos); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		pos.Contributed += amount
		if err := r.Pool.SavePosition(ctx, pos); err != nil {
			return err
		}

		st, err := r.Pool.GetStateForUpdate(ctx)
		if err != nil {
			return err
		}
		st.TotalPoolBalance += amount
		if err := r.Pool.SaveState(ctx, st); err != nil {
			return err
		}

		dto = &LenderStatsDTO{LenderAddress: caller, Contributed: pos.Contributed, Earned: pos.Earned}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// GetLenderStats reports (contributed, earned); lenders without a position
// read as zeros.
func (u *Usecase) GetLenderStats(ctx context.Context, address string) (*LenderStatsDTO, error) {
	pos, err := u.pool.GetPosition(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &LenderStatsDTO{LenderAddress: address}, nil
		}
		return nil, err
	}
	return &LenderStatsDTO{LenderAddress: address, Contributed: pos.Contributed, Earned: pos.Earned}, nil
}

func (u *Usecase) GetState(ctx context.Context) (*StateDTO, error) {
	st, err := u.pool.GetState(ctx)
	if err != nil {
		return nil, err
	}
	return &StateDTO{
		TotalPoolBalance: st.TotalPoolBalance,
		TotalLentOut:     st.TotalLentOut,
		Available:        st.Available(),
	}, nil
}
