package token

import "context"

type Repository interface {
	// GetAccountForUpdate locks the (symbol, address) row, creating a zero
	// balance row on first touch.
	GetAccountForUpdate(ctx context.Context, symbol, address string) (*Account, error)
	GetAccount(ctx context.Context, symbol, address string) (*Account, error)
	SaveAccount(ctx context.Context, a *Account) error

	GetAllowanceForUpdate(ctx context.Context, symbol, owner, spender string) (*Allowance, error)
	GetAllowance(ctx context.Context, symbol, owner, spender string) (*Allowance, error)
	SaveAllowance(ctx context.Context, a *Allowance) error

	GetSupplyForUpdate(ctx context.Context, symbol string) (*Supply, error)
	GetSupply(ctx context.Context, symbol string) (*Supply, error)
	SaveSupply(ctx context.Context, s *Supply) error
}
