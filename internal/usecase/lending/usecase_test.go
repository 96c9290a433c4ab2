package lending_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	eventDomain "edulend-backend/internal/domain/event"
	loanDomain "edulend-backend/internal/domain/loan"
	poolDomain "edulend-backend/internal/domain/pool"
	studentDomain "edulend-backend/internal/domain/student"
	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/testutil/memstore"
	"edulend-backend/internal/usecase/lending"
	pooluc "edulend-backend/internal/usecase/pool"
	"edulend-backend/internal/usecase/registry"
	tokenuc "edulend-backend/internal/usecase/token"
)

const (
	ownerAddr    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	verifierAddr = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	treasuryAddr = "0xcccccccccccccccccccccccccccccccccccccccc"
	studentAddr      = "0xdddddddddddddddddddddddddddddddddddddddd"
	lenderAddr       = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
	secondLenderAddr = "0x9999999999999999999999999999999999999999"
	strangerAddr     = "0xffffffffffffffffffffffffffffffffffffffff"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	store    *memstore.Store
	clock    *fakeClock
	lending  *lending.Usecase
	registry *registry.Usecase
	pool     *pooluc.Usecase
	tokens   *tokenuc.Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	store.Grant(access.CapOwner, ownerAddr)
	store.Grant(access.CapVerifier, verifierAddr)
	r := store.Repos()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	return &fixture{
		store:    store,
		clock:    clock,
		lending:  lending.NewUsecase(store, r.Loans, treasuryAddr).WithClock(clock.Now),
		registry: registry.NewUsecase(store, r.Students),
		pool:     pooluc.NewUsecase(store, r.Pool, treasuryAddr),
		tokens: tokenuc.NewUsecase(store, r.Tokens, tokenuc.Config{
			TreasuryAddress:    treasuryAddr,
			CollateralRatioBps: 10000,
			FaucetAmount:       100,
			Decimals:           6,
		}),
	}
}

func (f *fixture) verifyStudent(t *testing.T, address string) {
	t.Helper()
	if _, err := f.registry.VerifyStudent(context.Background(), verifierAddr, address); err != nil {
		t.Fatalf("verify student: %v", err)
	}
}

func (f *fixture) fundPool(t *testing.T, amount int64) {
	t.Helper()
	f.contribute(t, lenderAddr, amount)
}

func (f *fixture) contribute(t *testing.T, lender string, amount int64) {
	t.Helper()
	ctx := context.Background()
	f.store.SetBalance(tokenDomain.SymbolMUSD, lender, amount)
	if err := f.tokens.Approve(ctx, lender, tokenDomain.SymbolMUSD, treasuryAddr, amount); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.pool.Contribute(ctx, lender, amount); err != nil {
		t.Fatalf("contribute: %v", err)
	}
}

func (f *fixture) lenderEarned(t *testing.T, lender string) int64 {
	t.Helper()
	stats, err := f.pool.GetLenderStats(context.Background(), lender)
	if err != nil {
		t.Fatalf("lender stats: %v", err)
	}
	return stats.Earned
}

// topUpAndApprove gives the student enough MUSD to settle owed and approves
// the treasury to pull it.
func (f *fixture) topUpAndApprove(t *testing.T, address string, owed int64) {
	t.Helper()
	ctx := context.Background()
	bal, err := f.tokens.BalanceOf(ctx, tokenDomain.SymbolMUSD, address)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if short := owed - bal.Balance; short > 0 {
		if err := f.tokens.Mint(ctx, ownerAddr, tokenDomain.SymbolMUSD, address, short); err != nil {
			t.Fatalf("mint top-up: %v", err)
		}
	}
	if err := f.tokens.Approve(ctx, address, tokenDomain.SymbolMUSD, treasuryAddr, owed); err != nil {
		t.Fatalf("approve: %v", err)
	}
}

func (f *fixture) student(t *testing.T, address string) *studentDomain.Student {
	t.Helper()
	s, err := f.store.Repos().Students.GetByAddress(context.Background(), address)
	if err != nil {
		t.Fatalf("get student: %v", err)
	}
	return s
}

func (f *fixture) poolState(t *testing.T) *poolDomain.State {
	t.Helper()
	st, err := f.store.Repos().Pool.GetState(context.Background())
	if err != nil {
		t.Fatalf("pool state: %v", err)
	}
	return st
}

func (f *fixture) badgeCount(t *testing.T, address string, typ achDomain.Type) int64 {
	t.Helper()
	n, err := f.store.Repos().Achievements.CountByOwnerAndType(context.Background(), address, typ)
	if err != nil {
		t.Fatalf("count badges: %v", err)
	}
	return n
}

func TestRequest_UnverifiedStudentRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.lending.Request(context.Background(), studentAddr, lending.RequestLoanInput{
		Amount: 1000, DurationSeconds: 3600,
	})
	if !errors.Is(err, studentDomain.ErrNotVerified) {
		t.Fatalf("err = %v, want ErrNotVerified", err)
	}
	if _, err := f.lending.Get(context.Background(), 1); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("loan created despite rejection: %v", err)
	}
}

func TestRequest_InvalidArguments(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)

	for _, in := range []lending.RequestLoanInput{
		{Amount: 0, DurationSeconds: 3600},
		{Amount: -5, DurationSeconds: 3600},
		{Amount: 1000, DurationSeconds: 0},
	} {
		if _, err := f.lending.Request(context.Background(), studentAddr, in); !errors.Is(err, loanDomain.ErrInvalidArgument) {
			t.Errorf("Request(%+v) err = %v, want ErrInvalidArgument", in, err)
		}
	}
}

func TestRequest_CreatesPendingLoanWithReputationRate(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)

	dto, err := f.lending.Request(context.Background(), studentAddr, lending.RequestLoanInput{
		Amount: 1000, DurationSeconds: 30 * 24 * 3600, Purpose: "tuition",
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if dto.ID != 1 {
		t.Errorf("id = %d, want 1", dto.ID)
	}
	if dto.Status != string(loanDomain.StatusPending) {
		t.Errorf("status = %s, want pending", dto.Status)
	}
	// default reputation (100) maps to the base rate
	if dto.InterestRateBps != loanDomain.BaseRateBps {
		t.Errorf("rate = %d, want %d", dto.InterestRateBps, loanDomain.BaseRateBps)
	}
	if dto.TotalOwed != 1100 {
		t.Errorf("total owed = %d, want 1100", dto.TotalOwed)
	}
	if dto.StartTime != 0 {
		t.Errorf("pending loan has start time %d", dto.StartTime)
	}
}

func TestRequest_FirstLoanBadgeMintedOnce(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{
			Amount: 1000, DurationSeconds: 3600,
		}); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if n := f.badgeCount(t, studentAddr, achDomain.TypeFirstLoan); n != 1 {
		t.Fatalf("FIRST_LOAN badges = %d, want 1", n)
	}
}

func TestRequest_RecordsCollateralBacking(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	ctx := context.Background()
	if _, err := f.tokens.Faucet(ctx, studentAddr); err != nil {
		t.Fatalf("faucet: %v", err)
	}
	if _, err := f.tokens.DepositCollateralAndMintMUSD(ctx, studentAddr, 80); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	dto, err := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{
		Amount: 1000, DurationSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if dto.CollateralAmount != 80 {
		t.Fatalf("collateral = %d, want 80", dto.CollateralAmount)
	}
}

func TestFund_RequiresOwner(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	dto, err := f.lending.Request(context.Background(), studentAddr, lending.RequestLoanInput{
		Amount: 1000, DurationSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := f.lending.Fund(context.Background(), strangerAddr, dto.ID); !errors.Is(err, access.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestFund_InsufficientPoolFunds(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 500)
	dto, err := f.lending.Request(context.Background(), studentAddr, lending.RequestLoanInput{
		Amount: 1000, DurationSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := f.lending.Fund(context.Background(), ownerAddr, dto.ID); !errors.Is(err, poolDomain.ErrInsufficientPoolFunds) {
		t.Fatalf("err = %v, want ErrInsufficientPoolFunds", err)
	}
	// rejection must not move money or touch the loan
	got, err := f.lending.Get(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != string(loanDomain.StatusPending) {
		t.Fatalf("status = %s, want pending", got.Status)
	}
}

func TestFund_DisbursesAndActivates(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	ctx := context.Background()
	dto, err := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{
		Amount: 1000, DurationSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	funded, err := f.lending.Fund(ctx, ownerAddr, dto.ID)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if funded.Status != string(loanDomain.StatusActive) {
		t.Errorf("status = %s, want active", funded.Status)
	}
	if funded.StartTime != f.clock.Now().Unix() {
		t.Errorf("start = %d, want %d", funded.StartTime, f.clock.Now().Unix())
	}
	if funded.PoolBalanceAtFunding != 5000 {
		t.Errorf("pool at funding = %d, want 5000", funded.PoolBalanceAtFunding)
	}

	bal, err := f.tokens.BalanceOf(ctx, tokenDomain.SymbolMUSD, studentAddr)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance != 1000 {
		t.Errorf("student balance = %d, want 1000", bal.Balance)
	}

	st := f.poolState(t)
	if st.TotalLentOut != 1000 || st.Available() != 4000 {
		t.Errorf("pool lent=%d available=%d, want 1000/4000", st.TotalLentOut, st.Available())
	}
	if s := f.student(t, studentAddr); s.TotalBorrowed != 1000 {
		t.Errorf("total borrowed = %d, want 1000", s.TotalBorrowed)
	}

	// double funding is an invalid transition
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); !errors.Is(err, loanDomain.ErrInvalidState) {
		t.Fatalf("refund err = %v, want ErrInvalidState", err)
	}
}

func TestFund_UnknownLoan(t *testing.T) {
	f := newFixture(t)
	if _, err := f.lending.Fund(context.Background(), ownerAddr, 99); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTotalOwed_IndependentOfElapsedTime(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}

	before, err := f.lending.TotalOwed(ctx, dto.ID)
	if err != nil {
		t.Fatalf("owed: %v", err)
	}
	f.clock.Advance(48 * time.Hour)
	after, err := f.lending.TotalOwed(ctx, dto.ID)
	if err != nil {
		t.Fatalf("owed: %v", err)
	}
	if before != after || before != 1100 {
		t.Fatalf("owed drifted with time: %d then %d, want 1100", before, after)
	}
}

func TestRepay_PartialKeepsLoanActive(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}
	f.topUpAndApprove(t, studentAddr, 1100)

	got, err := f.lending.Repay(ctx, studentAddr, dto.ID, 400)
	if err != nil {
		t.Fatalf("repay: %v", err)
	}
	if got.Status != string(loanDomain.StatusActive) {
		t.Errorf("status = %s, want active", got.Status)
	}
	if got.AmountRepaid != 400 {
		t.Errorf("repaid = %d, want 400", got.AmountRepaid)
	}

	// partial payments below principal carry no interest yet
	st := f.poolState(t)
	if st.TotalLentOut != 600 {
		t.Errorf("lent out = %d, want 600", st.TotalLentOut)
	}
	if st.TotalPoolBalance != 5000 {
		t.Errorf("pool balance = %d, want 5000", st.TotalPoolBalance)
	}
	if s := f.student(t, studentAddr); s.ReputationScore != studentDomain.DefaultReputation {
		t.Errorf("reputation changed on partial repayment: %d", s.ReputationScore)
	}
}

func TestRepay_FullSettlesAndRewards(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}
	f.topUpAndApprove(t, studentAddr, 1100)

	got, err := f.lending.Repay(ctx, studentAddr, dto.ID, 1100)
	if err != nil {
		t.Fatalf("repay: %v", err)
	}
	if got.Status != string(loanDomain.StatusRepaid) {
		t.Errorf("status = %s, want repaid", got.Status)
	}

	s := f.student(t, studentAddr)
	if s.ReputationScore != studentDomain.DefaultReputation+10 {
		t.Errorf("reputation = %d, want %d", s.ReputationScore, studentDomain.DefaultReputation+10)
	}
	if s.TotalRepaid != 1100 {
		t.Errorf("total repaid = %d, want 1100", s.TotalRepaid)
	}

	st := f.poolState(t)
	if st.TotalLentOut != 0 {
		t.Errorf("lent out = %d, want 0", st.TotalLentOut)
	}
	if st.TotalPoolBalance != 5100 {
		t.Errorf("pool balance = %d, want 5100", st.TotalPoolBalance)
	}

	// sole lender collects all the interest
	stats, err := f.pool.GetLenderStats(ctx, lenderAddr)
	if err != nil {
		t.Fatalf("lender stats: %v", err)
	}
	if stats.Earned != 100 {
		t.Errorf("earned = %d, want 100", stats.Earned)
	}

	if n := f.badgeCount(t, studentAddr, achDomain.TypeFullRepayment); n != 1 {
		t.Errorf("FULL_REPAYMENT badges = %d, want 1", n)
	}
}

func TestRepay_InterestSplitAcrossLenders(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.contribute(t, lenderAddr, 3000)
	f.contribute(t, secondLenderAddr, 1000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}
	f.topUpAndApprove(t, studentAddr, 1100)
	if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, 1100); err != nil {
		t.Fatalf("repay: %v", err)
	}

	// 100 interest split 3:1 by contributed stake
	if got := f.lenderEarned(t, lenderAddr); got != 75 {
		t.Errorf("first lender earned = %d, want 75", got)
	}
	if got := f.lenderEarned(t, secondLenderAddr); got != 25 {
		t.Errorf("second lender earned = %d, want 25", got)
	}
}

func TestRepay_LateContributorCannotInflateEarnings(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.contribute(t, lenderAddr, 1000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}
	// a large contribution lands after funding, before repayment
	f.contribute(t, secondLenderAddr, 10000)
	f.topUpAndApprove(t, studentAddr, 1100)
	if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, 1100); err != nil {
		t.Fatalf("repay: %v", err)
	}

	// 100 interest against 11000 contributed; the rounding remainder stays
	// in the pool
	a := f.lenderEarned(t, lenderAddr)
	b := f.lenderEarned(t, secondLenderAddr)
	if a != 9 || b != 90 {
		t.Errorf("earned = %d/%d, want 9/90", a, b)
	}
	if a+b > 100 {
		t.Errorf("earned total %d exceeds the 100 interest paid", a+b)
	}
}

func TestRepay_OverRepaymentRejectedAtomically(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}
	f.topUpAndApprove(t, studentAddr, 2000)

	if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, 700); err != nil {
		t.Fatalf("repay: %v", err)
	}
	if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, 500); !errors.Is(err, loanDomain.ErrOverRepayment) {
		t.Fatalf("err = %v, want ErrOverRepayment", err)
	}

	got, err := f.lending.Get(ctx, dto.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AmountRepaid != 700 {
		t.Fatalf("repaid = %d after rejected payment, want 700", got.AmountRepaid)
	}
}

func TestRepay_WrongState(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})

	if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, 100); !errors.Is(err, loanDomain.ErrInvalidState) {
		t.Fatalf("repay pending err = %v, want ErrInvalidState", err)
	}
	if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, 0); !errors.Is(err, tokenDomain.ErrZeroAmount) {
		t.Fatalf("repay zero err = %v, want ErrZeroAmount", err)
	}
}

func TestMarkDefaulted(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}

	if _, err := f.lending.MarkDefaulted(ctx, strangerAddr, dto.ID); !errors.Is(err, access.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, err := f.lending.MarkDefaulted(ctx, ownerAddr, dto.ID); !errors.Is(err, loanDomain.ErrNotMatured) {
		t.Fatalf("err = %v, want ErrNotMatured", err)
	}

	f.clock.Advance(2 * time.Hour)
	got, err := f.lending.MarkDefaulted(ctx, ownerAddr, dto.ID)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if got.Status != string(loanDomain.StatusDefaulted) {
		t.Errorf("status = %s, want defaulted", got.Status)
	}
	if s := f.student(t, studentAddr); s.ReputationScore != studentDomain.DefaultReputation-20 {
		t.Errorf("reputation = %d, want %d", s.ReputationScore, studentDomain.DefaultReputation-20)
	}

	// unpaid principal is written off from both totals
	st := f.poolState(t)
	if st.TotalLentOut != 0 {
		t.Errorf("lent out = %d, want 0", st.TotalLentOut)
	}
	if st.TotalPoolBalance != 4000 {
		t.Errorf("pool balance = %d, want 4000", st.TotalPoolBalance)
	}

	if _, err := f.lending.MarkDefaulted(ctx, ownerAddr, dto.ID); !errors.Is(err, loanDomain.ErrInvalidState) {
		t.Fatalf("double default err = %v, want ErrInvalidState", err)
	}
}

func TestRepay_ThreeLoansMintLoyalBorrower(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 10000)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		dto, err := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
			t.Fatalf("fund %d: %v", i, err)
		}
		owed, err := f.lending.TotalOwed(ctx, dto.ID)
		if err != nil {
			t.Fatalf("owed %d: %v", i, err)
		}
		f.topUpAndApprove(t, studentAddr, owed)
		if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, owed); err != nil {
			t.Fatalf("repay %d: %v", i, err)
		}
	}

	if n := f.badgeCount(t, studentAddr, achDomain.TypeLoyalBorrower); n != 1 {
		t.Errorf("LOYAL_BORROWER badges = %d, want 1", n)
	}
	if n := f.badgeCount(t, studentAddr, achDomain.TypeFullRepayment); n != 1 {
		t.Errorf("FULL_REPAYMENT badges = %d, want 1", n)
	}
	// each repayment lifts reputation, so each new loan prices cheaper
	if s := f.student(t, studentAddr); s.ReputationScore != 130 {
		t.Errorf("reputation = %d, want 130", s.ReputationScore)
	}
	ids, err := f.lending.StudentLoanIDs(ctx, studentAddr)
	if err != nil {
		t.Fatalf("loan ids: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("loan ids = %v, want [1 2 3]", ids)
	}
}

func TestLifecycleEmitsEvents(t *testing.T) {
	f := newFixture(t)
	f.verifyStudent(t, studentAddr)
	f.fundPool(t, 5000)
	ctx := context.Background()
	dto, _ := f.lending.Request(ctx, studentAddr, lending.RequestLoanInput{Amount: 1000, DurationSeconds: 3600})
	if _, err := f.lending.Fund(ctx, ownerAddr, dto.ID); err != nil {
		t.Fatalf("fund: %v", err)
	}
	f.topUpAndApprove(t, studentAddr, 1100)
	if _, err := f.lending.Repay(ctx, studentAddr, dto.ID, 1100); err != nil {
		t.Fatalf("repay: %v", err)
	}

	events, err := f.store.Repos().Events.ListAfter(ctx, 0, 10)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	want := []eventDomain.Type{eventDomain.TypeLoanRequested, eventDomain.TypeLoanFunded, eventDomain.TypeLoanRepaid}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d type = %s, want %s", i, e.Type, want[i])
		}
		if e.LoanID != dto.ID {
			t.Errorf("event %d loan id = %d, want %d", i, e.LoanID, dto.ID)
		}
	}
}
