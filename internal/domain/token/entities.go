package token

import (
	"errors"
	"time"
)

var (
	ErrInsufficientFunds     = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrZeroAmount            = errors.New("amount must be positive")
	ErrUnknownSymbol         = errors.New("unknown token symbol")
)

const (
	SymbolMUSD = "MUSD"
	SymbolMBTC = "MBTC"
)

func ValidSymbol(s string) bool { return s == SymbolMUSD || s == SymbolMBTC }

type Account struct {
	ID      uint64 `gorm:"primaryKey;column:id" json:"-"`
	Symbol  string `gorm:"size:8;uniqueIndex:ux_accounts_symbol_address,priority:1" json:"symbol"`
	Address string `gorm:"size:42;uniqueIndex:ux_accounts_symbol_address,priority:2" json:"address"`
	Balance int64  `gorm:"type:bigint" json:"balance"`
	// Collateral is the cumulative amount this address has locked with the
	// treasury; only MBTC rows carry a non-zero value.
	Collateral int64     `gorm:"type:bigint" json:"collateral"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Account) TableName() string { return "token_accounts" }

type Allowance struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Symbol    string    `gorm:"size:8;uniqueIndex:ux_allowances_key,priority:1" json:"symbol"`
	Owner     string    `gorm:"size:42;uniqueIndex:ux_allowances_key,priority:2" json:"owner"`
	Spender   string    `gorm:"size:42;uniqueIndex:ux_allowances_key,priority:3" json:"spender"`
	Amount    int64     `gorm:"type:bigint" json:"amount"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Allowance) TableName() string { return "token_allowances" }

// Supply tracks lifetime minted and burned per symbol so the
// sum-of-balances == minted - burned invariant stays checkable.
type Supply struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Symbol    string    `gorm:"size:8;uniqueIndex:ux_supplies_symbol" json:"symbol"`
	Minted    int64     `gorm:"type:bigint" json:"minted"`
	Burned    int64     `gorm:"type:bigint" json:"burned"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Supply) TableName() string { return "token_supplies" }

func (s *Supply) Circulating() int64 { return s.Minted - s.Burned }
