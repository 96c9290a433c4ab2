package registry

import (
	"context"
	"errors"

	"edulend-backend/internal/domain/access"
	studentDomain "edulend-backend/internal/domain/student"
	"edulend-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	uow      uow.UnitOfWork
	students studentDomain.Repository
}

func NewUsecase(tx uow.UnitOfWork, students studentDomain.Repository) *Usecase {
	return &Usecase{uow: tx, students: students}
}

type StudentDTO struct {
	Address         string `json:"address"`
	IsVerified      bool   `json:"is_verified"`
	TotalBorrowed   int64  `json:"total_borrowed"`
	TotalRepaid     int64  `json:"total_repaid"`
	ReputationScore int    `json:"reputation_score"`
}

func toDTO(s *studentDomain.Student) *StudentDTO {
	return &StudentDTO{
		Address:         s.Address,
		IsVerified:      s.IsVerified,
		TotalBorrowed:   s.TotalBorrowed,
		TotalRepaid:     s.TotalRepaid,
		ReputationScore: s.ReputationScore,
	}
}

// VerifyStudent marks address as a verified student, creating the record with
// the default reputation score on first verification. Idempotent on repeats.
// Only addresses on the verifier allow-list may call it.
func (u *Usecase) VerifyStudent(ctx context.Context, caller, address string) (*StudentDTO, error) {
	var dto *StudentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := access.Require(ctx, r.Access, access.CapVerifier, caller); err != nil {
			return err
		}
		s, err := r.Students.GetByAddressForUpdate(ctx, address)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			s = &studentDomain.Student{
				Address:         address,
				IsVerified:      true,
				ReputationScore: studentDomain.DefaultReputation,
			}
			if err := r.Students.Create(ctx, s); err != nil {
				return err
			}
		case err != nil:
			return err
		case !s.IsVerified:
			s.IsVerified = true
			if err := r.Students.Save(ctx, s); err != nil {
				return err
			}
		}
		dto = toDTO(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// AddVerifier is an owner-only privilege grant.
func (u *Usecase) AddVerifier(ctx context.Context, caller, address string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := access.Require(ctx, r.Access, access.CapOwner, caller); err != nil {
			return err
		}
		return r.Access.Grant(ctx, access.CapVerifier, address)
	})
}

func (u *Usecase) GetStudent(ctx context.Context, address string) (*StudentDTO, error) {
	s, err := u.students.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, studentDomain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(s), nil
}
