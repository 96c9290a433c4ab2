package achievement

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("achievement not found")
	ErrAlreadyAwarded = errors.New("achievement already awarded")
)

type Type string

const (
	TypeFirstLoan     Type = "FIRST_LOAN"
	TypeFullRepayment Type = "FULL_REPAYMENT"
	TypeLoyalBorrower Type = "LOYAL_BORROWER"
)

// LoyalBorrowerThreshold is the number of fully repaid loans that earns the
// LOYAL_BORROWER badge.
const LoyalBorrowerThreshold = 3

// Achievement is a non-transferable milestone badge. Rows are append-only;
// nothing mutates one after mint.
type Achievement struct {
	TokenID      uint64    `gorm:"primaryKey;column:token_id" json:"token_id"`
	OwnerAddress string    `gorm:"size:42;index:idx_achievements_owner" json:"owner_address"`
	Type         Type      `gorm:"type:varchar(32);column:achievement_type" json:"achievement_type"`
	Metadata     string    `gorm:"type:text" json:"metadata"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (Achievement) TableName() string { return "achievements" }
