package pool

import (
	"errors"
	"time"
)

var (
	ErrInsufficientPoolFunds = errors.New("insufficient pool funds")
	ErrPositionNotFound      = errors.New("lender position not found")
)

// State is a singleton aggregate (row id 1). TotalPoolBalance is
// contributions plus realized interest minus default write-offs;
// TotalLentOut is outstanding principal. Available funds are the difference.
type State struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	TotalPoolBalance int64     `gorm:"type:bigint" json:"total_pool_balance"`
	TotalLentOut     int64     `gorm:"type:bigint" json:"total_lent_out"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (State) TableName() string { return "pool_state" }

func (s *State) Available() int64 { return s.TotalPoolBalance - s.TotalLentOut }

type Position struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	LenderAddress string    `gorm:"size:42;uniqueIndex:ux_positions_lender" json:"lender_address"`
	Contributed   int64     `gorm:"type:bigint" json:"contributed"`
	Earned        int64     `gorm:"type:bigint" json:"earned"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Position) TableName() string { return "lender_positions" }
