package memstore

import (
	"context"
	"time"

	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	eventDomain "edulend-backend/internal/domain/event"
	loanDomain "edulend-backend/internal/domain/loan"
	poolDomain "edulend-backend/internal/domain/pool"
	studentDomain "edulend-backend/internal/domain/student"
	tokenDomain "edulend-backend/internal/domain/token"
)

// ---- students ----

type studentRepo struct{ s *Store }

func (r *studentRepo) Create(_ context.Context, s *studentDomain.Student) error {
	s.ID = uint64(len(r.s.st.students) + 1)
	s.CreatedAt = time.Now().UTC()
	r.s.st.students[s.Address] = *s
	return nil
}

func (r *studentRepo) GetByAddress(_ context.Context, address string) (*studentDomain.Student, error) {
	s, ok := r.s.st.students[address]
	if !ok {
		return nil, errNotFound
	}
	return &s, nil
}

func (r *studentRepo) GetByAddressForUpdate(ctx context.Context, address string) (*studentDomain.Student, error) {
	return r.GetByAddress(ctx, address)
}

func (r *studentRepo) Save(_ context.Context, s *studentDomain.Student) error {
	r.s.st.students[s.Address] = *s
	return nil
}

// ---- loans ----

type loanRepo struct{ s *Store }

func (r *loanRepo) Create(_ context.Context, l *loanDomain.Loan) error {
	l.ID = r.s.st.nextLoan
	r.s.st.nextLoan++
	l.CreatedAt = time.Now().UTC()
	r.s.st.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) GetByID(_ context.Context, id uint64) (*loanDomain.Loan, error) {
	l, ok := r.s.st.loans[id]
	if !ok {
		return nil, errNotFound
	}
	return &l, nil
}

func (r *loanRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r *loanRepo) ListByStudent(_ context.Context, address string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	for id := uint64(1); id < r.s.st.nextLoan; id++ {
		if l, ok := r.s.st.loans[id]; ok && l.StudentAddress == address {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *loanRepo) CountByStudent(ctx context.Context, address string) (int64, error) {
	list, _ := r.ListByStudent(ctx, address)
	return int64(len(list)), nil
}

func (r *loanRepo) CountByStudentAndStatus(ctx context.Context, address string, st loanDomain.Status) (int64, error) {
	list, _ := r.ListByStudent(ctx, address)
	var n int64
	for _, l := range list {
		if l.Status == st {
			n++
		}
	}
	return n, nil
}

func (r *loanRepo) Save(_ context.Context, l *loanDomain.Loan) error {
	r.s.st.loans[l.ID] = *l
	return nil
}

// ---- pool ----

type poolRepo struct{ s *Store }

func (r *poolRepo) GetState(_ context.Context) (*poolDomain.State, error) {
	s := r.s.st.poolState
	s.ID = 1
	return &s, nil
}

func (r *poolRepo) GetStateForUpdate(ctx context.Context) (*poolDomain.State, error) {
	return r.GetState(ctx)
}

func (r *poolRepo) SaveState(_ context.Context, s *poolDomain.State) error {
	r.s.st.poolState = *s
	return nil
}

func (r *poolRepo) CreatePosition(_ context.Context, p *poolDomain.Position) error {
	p.ID = r.s.st.nextPos
	r.s.st.nextPos++
	r.s.st.positions[p.LenderAddress] = *p
	return nil
}

func (r *poolRepo) GetPosition(_ context.Context, lender string) (*poolDomain.Position, error) {
	p, ok := r.s.st.positions[lender]
	if !ok {
		return nil, errNotFound
	}
	return &p, nil
}

func (r *poolRepo) GetPositionForUpdate(ctx context.Context, lender string) (*poolDomain.Position, error) {
	return r.GetPosition(ctx, lender)
}

func (r *poolRepo) ListPositionsForUpdate(_ context.Context) ([]poolDomain.Position, error) {
	out := make([]poolDomain.Position, 0, len(r.s.st.positions))
	for id := uint64(1); id < r.s.st.nextPos; id++ {
		for _, p := range r.s.st.positions {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *poolRepo) SavePosition(_ context.Context, p *poolDomain.Position) error {
	r.s.st.positions[p.LenderAddress] = *p
	return nil
}

// ---- tokens ----

type tokenRepo struct{ s *Store }

func acctKey(symbol, address string) string { return symbol + "|" + address }

func (r *tokenRepo) GetAccount(_ context.Context, symbol, address string) (*tokenDomain.Account, error) {
	a, ok := r.s.st.accounts[acctKey(symbol, address)]
	if !ok {
		return &tokenDomain.Account{Symbol: symbol, Address: address}, nil
	}
	return &a, nil
}

func (r *tokenRepo) GetAccountForUpdate(ctx context.Context, symbol, address string) (*tokenDomain.Account, error) {
	a, _ := r.GetAccount(ctx, symbol, address)
	r.s.st.accounts[acctKey(symbol, address)] = *a
	return a, nil
}

func (r *tokenRepo) SaveAccount(_ context.Context, a *tokenDomain.Account) error {
	r.s.st.accounts[acctKey(a.Symbol, a.Address)] = *a
	return nil
}

func allowKey(symbol, owner, spender string) string { return symbol + "|" + owner + "|" + spender }

func (r *tokenRepo) GetAllowance(_ context.Context, symbol, owner, spender string) (*tokenDomain.Allowance, error) {
	a, ok := r.s.st.allowances[allowKey(symbol, owner, spender)]
	if !ok {
		return &tokenDomain.Allowance{Symbol: symbol, Owner: owner, Spender: spender}, nil
	}
	return &a, nil
}

func (r *tokenRepo) GetAllowanceForUpdate(ctx context.Context, symbol, owner, spender string) (*tokenDomain.Allowance, error) {
	a, _ := r.GetAllowance(ctx, symbol, owner, spender)
	r.s.st.allowances[allowKey(symbol, owner, spender)] = *a
	return a, nil
}

func (r *tokenRepo) SaveAllowance(_ context.Context, a *tokenDomain.Allowance) error {
	r.s.st.allowances[allowKey(a.Symbol, a.Owner, a.Spender)] = *a
	return nil
}

func (r *tokenRepo) GetSupply(_ context.Context, symbol string) (*tokenDomain.Supply, error) {
	s, ok := r.s.st.supplies[symbol]
	if !ok {
		return &tokenDomain.Supply{Symbol: symbol}, nil
	}
	return &s, nil
}

func (r *tokenRepo) GetSupplyForUpdate(ctx context.Context, symbol string) (*tokenDomain.Supply, error) {
	s, _ := r.GetSupply(ctx, symbol)
	r.s.st.supplies[symbol] = *s
	return s, nil
}

func (r *tokenRepo) SaveSupply(_ context.Context, s *tokenDomain.Supply) error {
	r.s.st.supplies[s.Symbol] = *s
	return nil
}

// ---- achievements ----

type achievementRepo struct{ s *Store }

func (r *achievementRepo) Create(_ context.Context, a *achDomain.Achievement) error {
	a.TokenID = r.s.st.nextToken
	r.s.st.nextToken++
	a.CreatedAt = time.Now().UTC()
	r.s.st.achievements[a.TokenID] = *a
	return nil
}

func (r *achievementRepo) GetByTokenID(_ context.Context, tokenID uint64) (*achDomain.Achievement, error) {
	a, ok := r.s.st.achievements[tokenID]
	if !ok {
		return nil, errNotFound
	}
	return &a, nil
}

func (r *achievementRepo) ListByOwner(_ context.Context, owner string) ([]achDomain.Achievement, error) {
	var out []achDomain.Achievement
	for id := uint64(1); id < r.s.st.nextToken; id++ {
		if a, ok := r.s.st.achievements[id]; ok && a.OwnerAddress == owner {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *achievementRepo) CountByOwnerAndType(ctx context.Context, owner string, t achDomain.Type) (int64, error) {
	list, _ := r.ListByOwner(ctx, owner)
	var n int64
	for _, a := range list {
		if a.Type == t {
			n++
		}
	}
	return n, nil
}

func (r *achievementRepo) TotalSupply(_ context.Context) (int64, error) {
	return int64(len(r.s.st.achievements)), nil
}

// ---- access ----

type accessRepo struct{ s *Store }

func (r *accessRepo) HasCapability(_ context.Context, cap access.Capability, address string) (bool, error) {
	return r.s.st.grants[string(cap)+"|"+address], nil
}

func (r *accessRepo) Grant(_ context.Context, cap access.Capability, address string) error {
	r.s.st.grants[string(cap)+"|"+address] = true
	return nil
}

// ---- events ----

type eventRepo struct{ s *Store }

func (r *eventRepo) Append(_ context.Context, e *eventDomain.Event) error {
	e.ID = r.s.st.nextEvent
	r.s.st.nextEvent++
	e.CreatedAt = time.Now().UTC()
	r.s.st.events = append(r.s.st.events, *e)
	return nil
}

func (r *eventRepo) ListAfter(_ context.Context, afterID uint64, limit int) ([]eventDomain.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []eventDomain.Event
	for _, e := range r.s.st.events {
		if e.ID > afterID {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
