package mysql

import (
	"context"
	"errors"

	poolDomain "edulend-backend/internal/domain/pool"

	"gorm.io/gorm"
)

// poolStateID: the aggregate is a single row.
const poolStateID = 1

type PoolRepository struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) *PoolRepository { return &PoolRepository{db: db} }

func (r *PoolRepository) GetState(ctx context.Context) (*poolDomain.State, error) {
	var out poolDomain.State
	res := r.db.WithContext(ctx).Where("id = ?", poolStateID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return &poolDomain.State{ID: poolStateID}, nil
	}
	return &out, res.Error
}

func (r *PoolRepository) GetStateForUpdate(ctx context.Context) (*poolDomain.State, error) {
	var out poolDomain.State
	res := forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", poolStateID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		out = poolDomain.State{ID: poolStateID}
		if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	}
	return &out, res.Error
}

func (r *PoolRepository) SaveState(ctx context.Context, s *poolDomain.State) error {
	s.ID = poolStateID
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *PoolRepository) CreatePosition(ctx context.Context, p *poolDomain.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PoolRepository) GetPosition(ctx context.Context, lender string) (*poolDomain.Position, error) {
	var out poolDomain.Position
	res := r.db.WithContext(ctx).Where("lender_address = ?", lender).First(&out)
	return &out, res.Error
}

func (r *PoolRepository) GetPositionForUpdate(ctx context.Context, lender string) (*poolDomain.Position, error) {
	var out poolDomain.Position
	res := forUpdate(r.db.WithContext(ctx)).
		Where("lender_address = ?", lender).
		First(&out)
	return &out, res.Error
}

func (r *PoolRepository) ListPositionsForUpdate(ctx context.Context) ([]poolDomain.Position, error) {
	var out []poolDomain.Position
	res := forUpdate(r.db.WithContext(ctx)).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PoolRepository) SavePosition(ctx context.Context, p *poolDomain.Position) error {
	return r.db.WithContext(ctx).Save(p).Error
}
