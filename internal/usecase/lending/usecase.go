package lending

import (
	"context"
	"errors"
	"time"

	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	eventDomain "edulend-backend/internal/domain/event"
	loanDomain "edulend-backend/internal/domain/loan"
	poolDomain "edulend-backend/internal/domain/pool"
	studentDomain "edulend-backend/internal/domain/student"
	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/domain/uow"
	achuc "edulend-backend/internal/usecase/achievement"
	tokenuc "edulend-backend/internal/usecase/token"

	"gorm.io/gorm"
)

const (
	repaymentReputationBonus = 10
	defaultReputationPenalty = 20
)

type Usecase struct {
	uow      uow.UnitOfWork
	loans    loanDomain.Repository
	treasury string
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, loans loanDomain.Repository, treasury string) *Usecase {
	return &Usecase{uow: tx, loans: loans, treasury: treasury, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the usecase clock; tests use it to reach maturity.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type RequestLoanInput struct {
	Amount          int64  `json:"amount"`
	DurationSeconds int64  `json:"duration_seconds"`
	Purpose         string `json:"purpose"`
}

type LoanDTO struct {
	ID                   uint64 `json:"id"`
	StudentAddress       string `json:"student_address"`
	Principal            int64  `json:"principal"`
	CollateralAmount     int64  `json:"collateral_amount"`
	InterestRateBps      int    `json:"interest_rate_bps"`
	DurationSeconds      int64  `json:"duration_seconds"`
	StartTime            int64  `json:"start_time,omitempty"`
	AmountRepaid         int64  `json:"amount_repaid"`
	TotalOwed            int64  `json:"total_owed"`
	PoolBalanceAtFunding int64  `json:"pool_balance_at_funding,omitempty"`
	Status               string `json:"status"`
	Purpose              string `json:"purpose"`
}

func toDTO(l *loanDomain.Loan) *LoanDTO {
	dto := &LoanDTO{
		ID:                   l.ID,
		StudentAddress:       l.StudentAddress,
		Principal:            l.Principal,
		CollateralAmount:     l.CollateralAmount,
		InterestRateBps:      l.InterestRateBps,
		DurationSeconds:      l.DurationSeconds,
		AmountRepaid:         l.AmountRepaid,
		TotalOwed:            l.TotalOwed(),
		PoolBalanceAtFunding: l.PoolBalanceAtFunding,
		Status:               string(l.Status),
		Purpose:              l.Purpose,
	}
	if l.StartTime != nil {
		dto.StartTime = l.StartTime.Unix()
	}
	return dto
}

// Request creates a pending loan for a verified student. The interest rate is
// fixed at request time from the student's reputation score; the student's
// very first request also mints the FIRST_LOAN badge.
func (u *Usecase) Request(ctx context.Context, caller string, in RequestLoanInput) (*LoanDTO, error) {
	if in.Amount <= 0 || in.DurationSeconds <= 0 {
		return nil, loanDomain.ErrInvalidArgument
	}
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Students.GetByAddressForUpdate(ctx, caller)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studentDomain.ErrNotVerified
		}
		if err != nil {
			return err
		}
		if !s.IsVerified {
			return studentDomain.ErrNotVerified
		}

		prior, err := r.Loans.CountByStudent(ctx, caller)
		if err != nil {
			return err
		}
		// collateral backing is whatever the student has locked so far
		acct, err := r.Tokens.GetAccount(ctx, tokenDomain.SymbolMBTC, caller)
		if err != nil {
			return err
		}

		l := &loanDomain.Loan{
			StudentAddress:   caller,
			Principal:        in.Amount,
			CollateralAmount: acct.Collateral,
			InterestRateBps:  loanDomain.RateForReputation(s.ReputationScore),
			DurationSeconds:  in.DurationSeconds,
			Status:           loanDomain.StatusPending,
			Purpose:          in.Purpose,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		if prior == 0 {
			if _, err := achuc.Award(ctx, r, caller, achDomain.TypeFirstLoan, "First loan requested"); err != nil {
				return err
			}
		}

		if err := r.Events.Append(ctx, &eventDomain.Event{
			Type:    eventDomain.TypeLoanRequested,
			LoanID:  l.ID,
			Address: caller,
			Amount:  in.Amount,
		}); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Fund disburses a pending loan from the pool. Owner-only: the pool operator
// decides which requests get funded.
func (u *Usecase) Fund(ctx context.Context, caller string, loanID uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if err := access.Require(ctx, r.Access, access.CapOwner, caller); err != nil {
			return err
		}
		if l.Status != loanDomain.StatusPending {
			return loanDomain.ErrInvalidState
		}

		st, err := r.Pool.GetStateForUpdate(ctx)
		if err != nil {
			return err
		}
		if st.Available() < l.Principal {
			return poolDomain.ErrInsufficientPoolFunds
		}

		if err := tokenuc.Move(ctx, r, tokenDomain.SymbolMUSD, u.treasury, l.StudentAddress, l.Principal); err != nil {
			return err
		}

		st.TotalLentOut += l.Principal
		if err := r.Pool.SaveState(ctx, st); err != nil {
			return err
		}

		now := u.now()
		l.Status = loanDomain.StatusActive
		l.StartTime = &now
		l.PoolBalanceAtFunding = st.TotalPoolBalance
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		s, err := r.Students.GetByAddressForUpdate(ctx, l.StudentAddress)
		if err != nil {
			return err
		}
		s.TotalBorrowed += l.Principal
		if err := r.Students.Save(ctx, s); err != nil {
			return err
		}

		if err := r.Events.Append(ctx, &eventDomain.Event{
			Type:    eventDomain.TypeLoanFunded,
			LoanID:  l.ID,
			Address: l.StudentAddress,
			Amount:  l.Principal,
		}); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Repay settles amount against an active loan. Over-repayment is rejected;
// the interest portion of each payment accrues to lenders pro-rata by their
// contributed stake.
func (u *Usecase) Repay(ctx context.Context, caller string, loanID uint64, amount int64) (*LoanDTO, error) {
	if amount <= 0 {
		return nil, tokenDomain.ErrZeroAmount
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.Status != loanDomain.StatusActive {
			return loanDomain.ErrInvalidState
		}
		owed := l.TotalOwed()
		if l.AmountRepaid+amount > owed {
			return loanDomain.ErrOverRepayment
		}

		if err := tokenuc.SpendAllowance(ctx, r, tokenDomain.SymbolMUSD, caller, u.treasury, amount); err != nil {
			return err
		}
		if err := tokenuc.Move(ctx, r, tokenDomain.SymbolMUSD, caller, u.treasury, amount); err != nil {
			return err
		}

		before := l.AmountRepaid
		l.AmountRepaid += amount
		principalDelta := min(l.AmountRepaid, l.Principal) - min(before, l.Principal)
		interestDelta := l.InterestPortion(l.AmountRepaid) - l.InterestPortion(before)

		st, err := r.Pool.GetStateForUpdate(ctx)
		if err != nil {
			return err
		}
		st.TotalLentOut -= principalDelta
		st.TotalPoolBalance += interestDelta
		if err := r.Pool.SaveState(ctx, st); err != nil {
			return err
		}

		if interestDelta > 0 {
			if err := distributeInterest(ctx, r, interestDelta); err != nil {
				return err
			}
		}

		s, err := r.Students.GetByAddressForUpdate(ctx, l.StudentAddress)
		if err != nil {
			return err
		}
		s.TotalRepaid += amount

		if l.AmountRepaid >= owed {
			l.Status = loanDomain.StatusRepaid
			s.AdjustReputation(repaymentReputationBonus)
			if err := awardRepaymentBadges(ctx, r, l.StudentAddress); err != nil {
				return err
			}
		}
		if err := r.Students.Save(ctx, s); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if err := r.Events.Append(ctx, &eventDomain.Event{
			Type:    eventDomain.TypeLoanRepaid,
			LoanID:  l.ID,
			Address: l.StudentAddress,
			Amount:  amount,
		}); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// distributeInterest credits each lender's earned share of interestPaid,
// pro-rata by contributed stake over the current total contributed. Floor
// division keeps the sum distributed at or below interestPaid; the remainder
// stays in the pool.
func distributeInterest(ctx context.Context, r uow.Repos, interestPaid int64) error {
	positions, err := r.Pool.ListPositionsForUpdate(ctx)
	if err != nil {
		return err
	}
	var totalContributed int64
	for i := range positions {
		totalContributed += positions[i].Contributed
	}
	if totalContributed == 0 {
		return nil
	}
	for i := range positions {
		share := interestPaid * positions[i].Contributed / totalContributed
		if share == 0 {
			continue
		}
		positions[i].Earned += share
		if err := r.Pool.SavePosition(ctx, &positions[i]); err != nil {
			return err
		}
	}
	return nil
}

func awardRepaymentBadges(ctx context.Context, r uow.Repos, address string) error {
	if _, err := achuc.Award(ctx, r, address, achDomain.TypeFullRepayment, "Loan repaid in full"); err != nil {
		return err
	}
	repaid, err := r.Loans.CountByStudentAndStatus(ctx, address, loanDomain.StatusRepaid)
	if err != nil {
		return err
	}
	// the loan being settled is saved after this hook, so count it here
	if repaid+1 >= achDomain.LoyalBorrowerThreshold {
		if _, err := achuc.Award(ctx, r, address, achDomain.TypeLoyalBorrower, "Repaid three loans in full"); err != nil {
			return err
		}
	}
	return nil
}

// MarkDefaulted writes off an active loan past maturity. Owner-only; there is
// no background expiry, someone has to call this.
func (u *Usecase) MarkDefaulted(ctx context.Context, caller string, loanID uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if err := access.Require(ctx, r.Access, access.CapOwner, caller); err != nil {
			return err
		}
		if l.Status != loanDomain.StatusActive {
			return loanDomain.ErrInvalidState
		}
		if !l.Matured(u.now()) {
			return loanDomain.ErrNotMatured
		}

		writeOff := l.Principal - min(l.AmountRepaid, l.Principal)
		st, err := r.Pool.GetStateForUpdate(ctx)
		if err != nil {
			return err
		}
		st.TotalLentOut -= writeOff
		st.TotalPoolBalance -= writeOff
		if err := r.Pool.SaveState(ctx, st); err != nil {
			return err
		}

		s, err := r.Students.GetByAddressForUpdate(ctx, l.StudentAddress)
		if err != nil {
			return err
		}
		s.AdjustReputation(-defaultReputationPenalty)
		if err := r.Students.Save(ctx, s); err != nil {
			return err
		}

		l.Status = loanDomain.StatusDefaulted
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// TotalOwed is the fixed full-term obligation, independent of elapsed time.
func (u *Usecase) TotalOwed(ctx context.Context, loanID uint64) (int64, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, loanDomain.ErrNotFound
		}
		return 0, err
	}
	return l.TotalOwed(), nil
}

func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

// StudentLoanIDs lists the student's loan ids in request order.
func (u *Usecase) StudentLoanIDs(ctx context.Context, address string) ([]uint64, error) {
	list, err := u.loans.ListByStudent(ctx, address)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(list))
	for _, l := range list {
		ids = append(ids, l.ID)
	}
	return ids, nil
}
