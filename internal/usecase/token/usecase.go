package token

import (
	"context"

	"edulend-backend/internal/domain/access"
	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/domain/uow"
)

type Config struct {
	TreasuryAddress    string
	CollateralRatioBps int
	FaucetAmount       int64
	Decimals           int
}

type Usecase struct {
	uow    uow.UnitOfWork
	tokens tokenDomain.Repository
	cfg    Config
}

func NewUsecase(tx uow.UnitOfWork, tokens tokenDomain.Repository, cfg Config) *Usecase {
	return &Usecase{uow: tx, tokens: tokens, cfg: cfg}
}

type BalanceDTO struct {
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type TokenInfoDTO struct {
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	Minted      int64  `json:"minted"`
	Burned      int64  `json:"burned"`
	TotalSupply int64  `json:"total_supply"`
}

// Mint is restricted to addresses on the minter or bridge allow-list (the
// owner qualifies implicitly).
func (u *Usecase) Mint(ctx context.Context, caller, symbol, to string, amount int64) error {
	if !tokenDomain.ValidSymbol(symbol) {
		return tokenDomain.ErrUnknownSymbol
	}
	if amount <= 0 {
		return tokenDomain.ErrZeroAmount
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := access.RequireAny(ctx, r.Access, caller,
			access.CapMinter, access.CapBridge, access.CapOwner); err != nil {
			return err
		}
		return MintTo(ctx, r, symbol, to, amount)
	})
}

// Burn destroys amount from the caller's own balance.
func (u *Usecase) Burn(ctx context.Context, caller, symbol string, amount int64) error {
	if !tokenDomain.ValidSymbol(symbol) {
		return tokenDomain.ErrUnknownSymbol
	}
	if amount <= 0 {
		return tokenDomain.ErrZeroAmount
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		acct, err := r.Tokens.GetAccountForUpdate(ctx, symbol, caller)
		if err != nil {
			return err
		}
		if acct.Balance < amount {
			return tokenDomain.ErrInsufficientFunds
		}
		acct.Balance -= amount
		if err := r.Tokens.SaveAccount(ctx, acct); err != nil {
			return err
		}
		sup, err := r.Tokens.GetSupplyForUpdate(ctx, symbol)
		if err != nil {
			return err
		}
		sup.Burned += amount
		return r.Tokens.SaveSupply(ctx, sup)
	})
}

func (u *Usecase) Transfer(ctx context.Context, caller, symbol, to string, amount int64) error {
	if !tokenDomain.ValidSymbol(symbol) {
		return tokenDomain.ErrUnknownSymbol
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return Move(ctx, r, symbol, caller, to, amount)
	})
}

// Approve overwrites the spender allowance (standard allowance semantics;
// amount 0 clears it).
func (u *Usecase) Approve(ctx context.Context, caller, symbol, spender string, amount int64) error {
	if !tokenDomain.ValidSymbol(symbol) {
		return tokenDomain.ErrUnknownSymbol
	}
	if amount < 0 {
		return tokenDomain.ErrZeroAmount
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		al, err := r.Tokens.GetAllowanceForUpdate(ctx, symbol, caller, spender)
		if err != nil {
			return err
		}
		al.Amount = amount
		return r.Tokens.SaveAllowance(ctx, al)
	})
}

func (u *Usecase) TransferFrom(ctx context.Context, spender, symbol, from, to string, amount int64) error {
	if !tokenDomain.ValidSymbol(symbol) {
		return tokenDomain.ErrUnknownSymbol
	}
	if amount <= 0 {
		return tokenDomain.ErrZeroAmount
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := SpendAllowance(ctx, r, symbol, from, spender, amount); err != nil {
			return err
		}
		return Move(ctx, r, symbol, from, to, amount)
	})
}

// Faucet mints the configured MBTC amount to the caller. Test-network
// dispenser: deliberately unauthenticated.
func (u *Usecase) Faucet(ctx context.Context, caller string) (int64, error) {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return MintTo(ctx, r, tokenDomain.SymbolMBTC, caller, u.cfg.FaucetAmount)
	})
	if err != nil {
		return 0, err
	}
	return u.cfg.FaucetAmount, nil
}

// DepositCollateralAndMintMUSD locks the caller's MBTC in the treasury and
// mints MUSD at the configured ratio. Returns the minted amount.
func (u *Usecase) DepositCollateralAndMintMUSD(ctx context.Context, caller string, collateralAmount int64) (int64, error) {
	if collateralAmount <= 0 {
		return 0, tokenDomain.ErrZeroAmount
	}
	minted := collateralAmount * int64(u.cfg.CollateralRatioBps) / 10000
	if minted <= 0 {
		return 0, tokenDomain.ErrZeroAmount
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := Move(ctx, r, tokenDomain.SymbolMBTC, caller, u.cfg.TreasuryAddress, collateralAmount); err != nil {
			return err
		}
		acct, err := r.Tokens.GetAccountForUpdate(ctx, tokenDomain.SymbolMBTC, caller)
		if err != nil {
			return err
		}
		acct.Collateral += collateralAmount
		if err := r.Tokens.SaveAccount(ctx, acct); err != nil {
			return err
		}
		return MintTo(ctx, r, tokenDomain.SymbolMUSD, caller, minted)
	})
	if err != nil {
		return 0, err
	}
	return minted, nil
}

func (u *Usecase) AddMinter(ctx context.Context, caller, address string) error {
	return u.grantRole(ctx, caller, access.CapMinter, address)
}

func (u *Usecase) AddBridge(ctx context.Context, caller, address string) error {
	return u.grantRole(ctx, caller, access.CapBridge, address)
}

func (u *Usecase) grantRole(ctx context.Context, caller string, cap access.Capability, address string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := access.Require(ctx, r.Access, access.CapOwner, caller); err != nil {
			return err
		}
		return r.Access.Grant(ctx, cap, address)
	})
}

func (u *Usecase) BalanceOf(ctx context.Context, symbol, address string) (*BalanceDTO, error) {
	if !tokenDomain.ValidSymbol(symbol) {
		return nil, tokenDomain.ErrUnknownSymbol
	}
	acct, err := u.tokens.GetAccount(ctx, symbol, address)
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{Symbol: symbol, Address: address, Balance: acct.Balance}, nil
}

func (u *Usecase) TokenInfo(ctx context.Context, symbol string) (*TokenInfoDTO, error) {
	if !tokenDomain.ValidSymbol(symbol) {
		return nil, tokenDomain.ErrUnknownSymbol
	}
	sup, err := u.tokens.GetSupply(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &TokenInfoDTO{
		Symbol:      symbol,
		Decimals:    u.cfg.Decimals,
		Minted:      sup.Minted,
		Burned:      sup.Burned,
		TotalSupply: sup.Circulating(),
	}, nil
}

func (u *Usecase) Decimals() int { return u.cfg.Decimals }
