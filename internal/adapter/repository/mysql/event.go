package mysql

import (
	"context"

	eventDomain "edulend-backend/internal/domain/event"

	"gorm.io/gorm"
)

type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Append(ctx context.Context, e *eventDomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) ListAfter(ctx context.Context, afterID uint64, limit int) ([]eventDomain.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []eventDomain.Event
	res := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}
