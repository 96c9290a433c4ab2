package achievement

import (
	"context"
	"errors"

	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	"edulend-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	uow  uow.UnitOfWork
	repo achDomain.Repository
}

func NewUsecase(tx uow.UnitOfWork, repo achDomain.Repository) *Usecase {
	return &Usecase{uow: tx, repo: repo}
}

type AchievementDTO struct {
	TokenID         uint64 `json:"token_id"`
	OwnerAddress    string `json:"owner_address"`
	AchievementType string `json:"achievement_type"`
	Timestamp       int64  `json:"timestamp"`
	Metadata        string `json:"metadata"`
}

func toDTO(a *achDomain.Achievement) *AchievementDTO {
	return &AchievementDTO{
		TokenID:         a.TokenID,
		OwnerAddress:    a.OwnerAddress,
		AchievementType: string(a.Type),
		Timestamp:       a.CreatedAt.Unix(),
		Metadata:        a.Metadata,
	}
}

// Award mints t for owner unless already held. Runs inside the caller's
// transaction so a badge never outlives a rolled-back milestone.
func Award(ctx context.Context, r uow.Repos, owner string, t achDomain.Type, metadata string) (bool, error) {
	n, err := r.Achievements.CountByOwnerAndType(ctx, owner, t)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	a := &achDomain.Achievement{OwnerAddress: owner, Type: t, Metadata: metadata}
	if err := r.Achievements.Create(ctx, a); err != nil {
		return false, err
	}
	return true, nil
}

// Mint is the owner-gated external mint path (platform milestones mint
// through Award inside their own transactions).
func (u *Usecase) Mint(ctx context.Context, caller, owner string, t achDomain.Type, metadata string) (*AchievementDTO, error) {
	var dto *AchievementDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := access.Require(ctx, r.Access, access.CapOwner, caller); err != nil {
			return err
		}
		n, err := r.Achievements.CountByOwnerAndType(ctx, owner, t)
		if err != nil {
			return err
		}
		if n > 0 {
			return achDomain.ErrAlreadyAwarded
		}
		a := &achDomain.Achievement{OwnerAddress: owner, Type: t, Metadata: metadata}
		if err := r.Achievements.Create(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) GetAchievement(ctx context.Context, tokenID uint64) (*AchievementDTO, error) {
	a, err := u.repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, achDomain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(a), nil
}

// GetUserAchievements returns the owner's token ids in mint order.
func (u *Usecase) GetUserAchievements(ctx context.Context, owner string) ([]uint64, error) {
	list, err := u.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.TokenID)
	}
	return ids, nil
}

func (u *Usecase) TotalSupply(ctx context.Context) (int64, error) {
	return u.repo.TotalSupply(ctx)
}
