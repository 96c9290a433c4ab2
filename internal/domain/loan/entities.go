package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("loan not found")
	ErrInvalidState    = errors.New("invalid loan state for this operation")
	ErrOverRepayment   = errors.New("repayment exceeds total owed")
	ErrNotMatured      = errors.New("loan has not reached maturity")
	ErrInvalidArgument = errors.New("invalid loan argument")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

const (
	// BaseRateBps is the rate charged at the default reputation score.
	BaseRateBps = 1000
	// MaxRateBps caps every computed interest rate.
	MaxRateBps = 2000
	// rateSlopeBps is the per-reputation-point rate adjustment.
	rateSlopeBps = 5
)

type Loan struct {
	ID                   uint64     `gorm:"primaryKey;column:id" json:"id"`
	StudentAddress       string     `gorm:"size:42;index:idx_loans_student" json:"student_address"`
	Principal            int64      `gorm:"type:bigint" json:"principal"`
	CollateralAmount     int64      `gorm:"type:bigint" json:"collateral_amount"`
	InterestRateBps      int        `gorm:"column:interest_rate_bps" json:"interest_rate_bps"`
	DurationSeconds      int64      `gorm:"column:duration_seconds" json:"duration_seconds"`
	StartTime            *time.Time `gorm:"column:start_time" json:"start_time,omitempty"`
	AmountRepaid         int64      `gorm:"type:bigint" json:"amount_repaid"`
	PoolBalanceAtFunding int64      `gorm:"type:bigint" json:"-"`
	Status               Status     `gorm:"type:varchar(16);default:'pending'" json:"status"`
	Purpose              string     `gorm:"type:text" json:"purpose"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// RateForReputation maps a reputation score to an interest rate in basis
// points. Higher reputation, lower rate; clamped to [0, MaxRateBps].
func RateForReputation(score int) int {
	rate := BaseRateBps + (100-score)*rateSlopeBps
	if rate < 0 {
		rate = 0
	}
	if rate > MaxRateBps {
		rate = MaxRateBps
	}
	return rate
}

// TotalOwed is the full-term obligation: principal plus simple interest for
// the whole requested duration. Early repayment does not prorate.
func (l *Loan) TotalOwed() int64 {
	return l.Principal + l.Principal*int64(l.InterestRateBps)/10000
}

// InterestPortion returns how much of a cumulative repaid amount is interest.
func (l *Loan) InterestPortion(repaid int64) int64 {
	if repaid <= l.Principal {
		return 0
	}
	return repaid - l.Principal
}

// Matured reports whether an active loan has passed startTime + duration.
func (l *Loan) Matured(now time.Time) bool {
	if l.StartTime == nil {
		return false
	}
	return !now.Before(l.StartTime.Add(time.Duration(l.DurationSeconds) * time.Second))
}
