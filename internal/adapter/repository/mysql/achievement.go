package mysql

import (
	"context"

	achDomain "edulend-backend/internal/domain/achievement"

	"gorm.io/gorm"
)

type AchievementRepository struct{ db *gorm.DB }

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) Create(ctx context.Context, a *achDomain.Achievement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AchievementRepository) GetByTokenID(ctx context.Context, tokenID uint64) (*achDomain.Achievement, error) {
	var out achDomain.Achievement
	res := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&out)
	return &out, res.Error
}

func (r *AchievementRepository) ListByOwner(ctx context.Context, owner string) ([]achDomain.Achievement, error) {
	var out []achDomain.Achievement
	res := r.db.WithContext(ctx).
		Where("owner_address = ?", owner).
		Order("token_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *AchievementRepository) CountByOwnerAndType(ctx context.Context, owner string, t achDomain.Type) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&achDomain.Achievement{}).
		Where("owner_address = ? AND achievement_type = ?", owner, t).
		Count(&n)
	return n, res.Error
}

func (r *AchievementRepository) TotalSupply(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&achDomain.Achievement{}).Count(&n)
	return n, res.Error
}
