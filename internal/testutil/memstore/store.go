// Package memstore is an in-memory unit of work for usecase and handler
// tests. It mirrors the behavior of the mysql adapters (including
// record-not-found sentinels and create-on-first-lock rows) and rolls the
// whole store back when a transaction function errors.
package memstore

import (
	"context"
	"sync"

	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	eventDomain "edulend-backend/internal/domain/event"
	loanDomain "edulend-backend/internal/domain/loan"
	poolDomain "edulend-backend/internal/domain/pool"
	studentDomain "edulend-backend/internal/domain/student"
	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type state struct {
	students map[string]studentDomain.Student
	loans    map[uint64]loanDomain.Loan
	nextLoan uint64

	poolState poolDomain.State
	positions map[string]poolDomain.Position
	nextPos   uint64

	accounts   map[string]tokenDomain.Account // symbol|address
	allowances map[string]tokenDomain.Allowance
	supplies   map[string]tokenDomain.Supply

	achievements map[uint64]achDomain.Achievement
	nextToken    uint64

	grants map[string]bool // capability|address

	events    []eventDomain.Event
	nextEvent uint64
}

func newState() *state {
	return &state{
		students:     map[string]studentDomain.Student{},
		loans:        map[uint64]loanDomain.Loan{},
		nextLoan:     1,
		positions:    map[string]poolDomain.Position{},
		nextPos:      1,
		accounts:     map[string]tokenDomain.Account{},
		allowances:   map[string]tokenDomain.Allowance{},
		supplies:     map[string]tokenDomain.Supply{},
		achievements: map[uint64]achDomain.Achievement{},
		nextToken:    1,
		grants:       map[string]bool{},
		nextEvent:    1,
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.students {
		c.students[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.positions {
		c.positions[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.allowances {
		c.allowances[k] = v
	}
	for k, v := range s.supplies {
		c.supplies[k] = v
	}
	for k, v := range s.achievements {
		c.achievements[k] = v
	}
	for k, v := range s.grants {
		c.grants[k] = v
	}
	c.events = append([]eventDomain.Event(nil), s.events...)
	c.poolState = s.poolState
	c.nextLoan, c.nextPos, c.nextToken, c.nextEvent = s.nextLoan, s.nextPos, s.nextToken, s.nextEvent
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store { return &Store{st: newState()} }

// Repos returns repositories bound to the store, outside any transaction.
// Fine for test reads and seeding; they always observe the current state,
// including rollbacks.
func (s *Store) Repos() uow.Repos { return reposFor(s) }

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(reposFor(s)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loanDomain.Loan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	r := reposFor(s)
	l, err := r.Loans.GetByIDForUpdate(ctx, loanID)
	if err != nil {
		return err
	}
	if err := fn(r, l); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func reposFor(s *Store) uow.Repos {
	return uow.Repos{
		Students:     &studentRepo{s},
		Loans:        &loanRepo{s},
		Pool:         &poolRepo{s},
		Tokens:       &tokenRepo{s},
		Achievements: &achievementRepo{s},
		Access:       &accessRepo{s},
		Events:       &eventRepo{s},
	}
}

// ---- seeding helpers ----

func (s *Store) Grant(cap access.Capability, address string) {
	s.st.grants[string(cap)+"|"+address] = true
}

func (s *Store) SetBalance(symbol, address string, amount int64) {
	key := symbol + "|" + address
	a := s.st.accounts[key]
	a.Symbol, a.Address, a.Balance = symbol, address, amount
	s.st.accounts[key] = a
	sup := s.st.supplies[symbol]
	sup.Symbol = symbol
	sup.Minted += amount
	s.st.supplies[symbol] = sup
}

var errNotFound = gorm.ErrRecordNotFound
