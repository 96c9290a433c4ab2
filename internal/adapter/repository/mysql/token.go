package mysql

import (
	"context"
	"errors"

	tokenDomain "edulend-backend/internal/domain/token"

	"gorm.io/gorm"
)

type TokenRepository struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) *TokenRepository { return &TokenRepository{db: db} }

func (r *TokenRepository) GetAccount(ctx context.Context, symbol, address string) (*tokenDomain.Account, error) {
	var out tokenDomain.Account
	res := r.db.WithContext(ctx).
		Where("symbol = ? AND address = ?", symbol, address).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return &tokenDomain.Account{Symbol: symbol, Address: address}, nil
	}
	return &out, res.Error
}

func (r *TokenRepository) GetAccountForUpdate(ctx context.Context, symbol, address string) (*tokenDomain.Account, error) {
	var out tokenDomain.Account
	res := forUpdate(r.db.WithContext(ctx)).
		Where("symbol = ? AND address = ?", symbol, address).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		out = tokenDomain.Account{Symbol: symbol, Address: address}
		if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	}
	return &out, res.Error
}

func (r *TokenRepository) SaveAccount(ctx context.Context, a *tokenDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *TokenRepository) GetAllowance(ctx context.Context, symbol, owner, spender string) (*tokenDomain.Allowance, error) {
	var out tokenDomain.Allowance
	res := r.db.WithContext(ctx).
		Where("symbol = ? AND owner = ? AND spender = ?", symbol, owner, spender).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return &tokenDomain.Allowance{Symbol: symbol, Owner: owner, Spender: spender}, nil
	}
	return &out, res.Error
}

func (r *TokenRepository) GetAllowanceForUpdate(ctx context.Context, symbol, owner, spender string) (*tokenDomain.Allowance, error) {
	var out tokenDomain.Allowance
	res := forUpdate(r.db.WithContext(ctx)).
		Where("symbol = ? AND owner = ? AND spender = ?", symbol, owner, spender).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		out = tokenDomain.Allowance{Symbol: symbol, Owner: owner, Spender: spender}
		if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	}
	return &out, res.Error
}

func (r *TokenRepository) SaveAllowance(ctx context.Context, a *tokenDomain.Allowance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *TokenRepository) GetSupply(ctx context.Context, symbol string) (*tokenDomain.Supply, error) {
	var out tokenDomain.Supply
	res := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return &tokenDomain.Supply{Symbol: symbol}, nil
	}
	return &out, res.Error
}

func (r *TokenRepository) GetSupplyForUpdate(ctx context.Context, symbol string) (*tokenDomain.Supply, error) {
	var out tokenDomain.Supply
	res := forUpdate(r.db.WithContext(ctx)).
		Where("symbol = ?", symbol).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		out = tokenDomain.Supply{Symbol: symbol}
		if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	}
	return &out, res.Error
}

func (r *TokenRepository) SaveSupply(ctx context.Context, s *tokenDomain.Supply) error {
	return r.db.WithContext(ctx).Save(s).Error
}
