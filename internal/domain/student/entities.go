package student

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("student not found")
	ErrNotVerified = errors.New("student not verified")
)

const (
	DefaultReputation = 100
	MinReputation     = 0
	MaxReputation     = 200
)

type Student struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	Address         string    `gorm:"size:42;uniqueIndex:ux_students_address" json:"address"`
	IsVerified      bool      `gorm:"column:is_verified" json:"is_verified"`
	TotalBorrowed   int64     `gorm:"type:bigint" json:"total_borrowed"`
	TotalRepaid     int64     `gorm:"type:bigint" json:"total_repaid"`
	ReputationScore int       `gorm:"column:reputation_score" json:"reputation_score"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Student) TableName() string { return "students" }

// AdjustReputation applies delta and clamps the result to [MinReputation, MaxReputation].
func (s *Student) AdjustReputation(delta int) {
	s.ReputationScore += delta
	if s.ReputationScore < MinReputation {
		s.ReputationScore = MinReputation
	}
	if s.ReputationScore > MaxReputation {
		s.ReputationScore = MaxReputation
	}
}
