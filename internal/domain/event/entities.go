package event

import "time"

type Type string

const (
	TypeLoanRequested Type = "LoanRequested"
	TypeLoanFunded    Type = "LoanFunded"
	TypeLoanRepaid    Type = "LoanRepaid"
)

// Event is one row of the poll-based change feed. Appended in the same
// transaction as the mutation it describes, so observers never see an event
// for a rolled-back operation.
type Event struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Type      Type      `gorm:"type:varchar(32);index:idx_events_type" json:"type"`
	LoanID    uint64    `gorm:"column:loan_id;index:idx_events_loan" json:"loan_id"`
	Address   string    `gorm:"size:42" json:"address"`
	Amount    int64     `gorm:"type:bigint" json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "events" }
