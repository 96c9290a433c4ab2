package token

import (
	"context"

	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/domain/uow"
)

// Transaction-scoped ledger moves shared by the lending and pool usecases.
// Callers are responsible for running these inside a unit of work.

// Move debits from and credits to within the current transaction.
func Move(ctx context.Context, r uow.Repos, symbol, from, to string, amount int64) error {
	if amount <= 0 {
		return tokenDomain.ErrZeroAmount
	}
	src, err := r.Tokens.GetAccountForUpdate(ctx, symbol, from)
	if err != nil {
		return err
	}
	if src.Balance < amount {
		return tokenDomain.ErrInsufficientFunds
	}
	dst, err := r.Tokens.GetAccountForUpdate(ctx, symbol, to)
	if err != nil {
		return err
	}
	src.Balance -= amount
	dst.Balance += amount
	if err := r.Tokens.SaveAccount(ctx, src); err != nil {
		return err
	}
	return r.Tokens.SaveAccount(ctx, dst)
}

// MintTo credits to and records the amount against lifetime minted supply.
func MintTo(ctx context.Context, r uow.Repos, symbol, to string, amount int64) error {
	if amount <= 0 {
		return tokenDomain.ErrZeroAmount
	}
	acct, err := r.Tokens.GetAccountForUpdate(ctx, symbol, to)
	if err != nil {
		return err
	}
	acct.Balance += amount
	if err := r.Tokens.SaveAccount(ctx, acct); err != nil {
		return err
	}
	sup, err := r.Tokens.GetSupplyForUpdate(ctx, symbol)
	if err != nil {
		return err
	}
	sup.Minted += amount
	return r.Tokens.SaveSupply(ctx, sup)
}

// SpendAllowance consumes amount from the (owner, spender) allowance.
func SpendAllowance(ctx context.Context, r uow.Repos, symbol, owner, spender string, amount int64) error {
	al, err := r.Tokens.GetAllowanceForUpdate(ctx, symbol, owner, spender)
	if err != nil {
		return err
	}
	if al.Amount < amount {
		return tokenDomain.ErrInsufficientAllowance
	}
	al.Amount -= amount
	return r.Tokens.SaveAllowance(ctx, al)
}
