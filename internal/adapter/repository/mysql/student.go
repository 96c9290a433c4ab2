package mysql

import (
	"context"

	studentDomain "edulend-backend/internal/domain/student"

	"gorm.io/gorm"
)

type StudentRepository struct{ db *gorm.DB }

func NewStudentRepository(db *gorm.DB) *StudentRepository { return &StudentRepository{db: db} }

func (r *StudentRepository) Create(ctx context.Context, s *studentDomain.Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *StudentRepository) Save(ctx context.Context, s *studentDomain.Student) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *StudentRepository) GetByAddress(ctx context.Context, address string) (*studentDomain.Student, error) {
	var out studentDomain.Student
	res := r.db.WithContext(ctx).Where("address = ?", address).First(&out)
	return &out, res.Error
}

func (r *StudentRepository) GetByAddressForUpdate(ctx context.Context, address string) (*studentDomain.Student, error) {
	var out studentDomain.Student
	res := forUpdate(r.db.WithContext(ctx)).
		Where("address = ?", address).
		First(&out)
	return &out, res.Error
}
