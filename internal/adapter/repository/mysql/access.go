package mysql

import (
	"context"
	"errors"

	accessDomain "edulend-backend/internal/domain/access"

	"gorm.io/gorm"
)

type AccessRepository struct{ db *gorm.DB }

func NewAccessRepository(db *gorm.DB) *AccessRepository { return &AccessRepository{db: db} }

func (r *AccessRepository) HasCapability(ctx context.Context, cap accessDomain.Capability, address string) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&accessDomain.Grant{}).
		Where("capability = ? AND address = ?", cap, address).
		Count(&n)
	return n > 0, res.Error
}

func (r *AccessRepository) Grant(ctx context.Context, cap accessDomain.Capability, address string) error {
	var existing accessDomain.Grant
	res := r.db.WithContext(ctx).
		Where("capability = ? AND address = ?", cap, address).
		First(&existing)
	if res.Error == nil {
		return nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return res.Error
	}
	return r.db.WithContext(ctx).Create(&accessDomain.Grant{Capability: cap, Address: address}).Error
}
