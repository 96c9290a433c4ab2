package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"edulend-backend/internal/domain/access"
	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/testutil/memstore"
	achuc "edulend-backend/internal/usecase/achievement"
	"edulend-backend/internal/usecase/lending"
	pooluc "edulend-backend/internal/usecase/pool"
	"edulend-backend/internal/usecase/registry"
	tokenuc "edulend-backend/internal/usecase/token"
)

const (
	ownerAddr    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	verifierAddr = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	treasuryAddr = "0xcccccccccccccccccccccccccccccccccccccccc"
	studentAddr  = "0xdddddddddddddddddddddddddddddddddddddddd"
	lenderAddr   = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
	strangerAddr = "0xffffffffffffffffffffffffffffffffffffffff"
)

type testServer struct {
	e     *echo.Echo
	store *memstore.Store
	clock time.Time
}

// newTestServer wires the full route table over the in-memory store, the same
// shape main() builds over mysql.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	store.Grant(access.CapOwner, ownerAddr)
	store.Grant(access.CapVerifier, verifierAddr)
	r := store.Repos()

	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	registryUC := registry.NewUsecase(store, r.Students)
	tokenUC := tokenuc.NewUsecase(store, r.Tokens, tokenuc.Config{
		TreasuryAddress:    treasuryAddr,
		CollateralRatioBps: 10000,
		FaucetAmount:       100_000_000,
		Decimals:           6,
	})
	lendingUC := lending.NewUsecase(store, r.Loans, treasuryAddr).
		WithClock(func() time.Time { return clock })
	poolUC := pooluc.NewUsecase(store, r.Pool, treasuryAddr)
	achievementUC := achuc.NewUsecase(store, r.Achievements)

	e := echo.New()
	e.Validator = NewValidator()

	h := NewHandler()
	studentH := NewStudentHandler(registryUC)
	loanH := NewLoanHandler(lendingUC)
	poolH := NewPoolHandler(poolUC)
	tokenH := NewTokenHandler(tokenUC)
	achievementH := NewAchievementHandler(achievementUC)
	eventH := NewEventHandler(r.Events)

	e.GET("/health", h.Health)
	e.POST("/students/:address/verify", studentH.VerifyStudent)
	e.GET("/students/:address", studentH.GetStudent)
	e.POST("/verifiers", studentH.AddVerifier)
	e.POST("/loans", loanH.RequestLoan)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.GET("/loans/:loan_id/owed", loanH.GetTotalOwed)
	e.POST("/loans/:loan_id/fund", loanH.FundLoan)
	e.POST("/loans/:loan_id/repay", loanH.RepayLoan)
	e.POST("/loans/:loan_id/default", loanH.MarkDefaulted)
	e.GET("/students/:address/loans", loanH.GetStudentLoans)
	e.POST("/pool/contributions", poolH.Contribute)
	e.GET("/pool", poolH.GetState)
	e.GET("/pool/lenders/:address", poolH.GetLenderStats)
	e.POST("/collateral/deposits", tokenH.DepositCollateral)
	e.POST("/tokens/:symbol/mint", tokenH.Mint)
	e.POST("/tokens/:symbol/burns", tokenH.Burn)
	e.POST("/tokens/:symbol/transfers", tokenH.Transfer)
	e.POST("/tokens/:symbol/approvals", tokenH.Approve)
	e.POST("/tokens/:symbol/transfers-from", tokenH.TransferFrom)
	e.POST("/tokens/:symbol/minters", tokenH.AddMinter)
	e.POST("/tokens/MBTC/faucet", tokenH.Faucet)
	e.GET("/tokens/:symbol", tokenH.TokenInfo)
	e.GET("/tokens/:symbol/balances/:address", tokenH.BalanceOf)
	e.POST("/achievements", achievementH.Mint)
	e.GET("/achievements", achievementH.TotalSupply)
	e.GET("/achievements/:token_id", achievementH.GetAchievement)
	e.GET("/students/:address/achievements", achievementH.GetUserAchievements)
	e.GET("/events", eventH.ListEvents)

	return &testServer{e: e, store: store, clock: clock}
}

func (s *testServer) do(method, path, caller, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != "" {
		req.Header.Set(HeaderCallerAddress, caller)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// seedPool funds the lender with MUSD, approves the treasury, and contributes.
func (s *testServer) seedPool(t *testing.T, amount int64) {
	t.Helper()
	s.store.SetBalance(tokenDomain.SymbolMUSD, lenderAddr, amount)
	rec := s.do(http.MethodPost, "/tokens/MUSD/approvals", lenderAddr,
		`{"spender":"`+treasuryAddr+`","amount":`+jsonInt(amount)+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodPost, "/pool/contributions", lenderAddr,
		`{"amount":`+jsonInt(amount)+`}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("contribute: %d %s", rec.Code, rec.Body.String())
	}
}

func (s *testServer) verify(t *testing.T, address string) {
	t.Helper()
	rec := s.do(http.MethodPost, "/students/"+address+"/verify", verifierAddr, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", rec.Code, rec.Body.String())
	}
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
}
