package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	loanDomain "edulend-backend/internal/domain/loan"
	poolDomain "edulend-backend/internal/domain/pool"
	studentDomain "edulend-backend/internal/domain/student"
	tokenDomain "edulend-backend/internal/domain/token"

	"github.com/labstack/echo/v4"
)

// HeaderCallerAddress identifies the acting account on mutating requests,
// standing in for a signed transaction sender.
const HeaderCallerAddress = "Ax-Caller-Address"

func callerAddress(c echo.Context) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderCallerAddress)))
	if addr == "" {
		return "", errors.New("missing " + HeaderCallerAddress + " header")
	}
	if !reAddr.MatchString(addr) {
		return "", errors.New("invalid " + HeaderCallerAddress + " header")
	}
	return addr, nil
}

func paramUint64(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// writeDomainError maps domain sentinel errors onto HTTP statuses. Raw
// failure reasons go back to the client; the UI surfaces them as-is.
func writeDomainError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, access.ErrUnauthorized),
		errors.Is(err, studentDomain.ErrNotVerified):
		code = http.StatusForbidden
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, studentDomain.ErrNotFound),
		errors.Is(err, achDomain.ErrNotFound),
		errors.Is(err, poolDomain.ErrPositionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, loanDomain.ErrInvalidState),
		errors.Is(err, loanDomain.ErrOverRepayment),
		errors.Is(err, loanDomain.ErrNotMatured),
		errors.Is(err, achDomain.ErrAlreadyAwarded):
		code = http.StatusConflict
	case errors.Is(err, tokenDomain.ErrInsufficientFunds),
		errors.Is(err, tokenDomain.ErrInsufficientAllowance),
		errors.Is(err, poolDomain.ErrInsufficientPoolFunds):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, tokenDomain.ErrZeroAmount),
		errors.Is(err, tokenDomain.ErrUnknownSymbol),
		errors.Is(err, loanDomain.ErrInvalidArgument):
		code = http.StatusBadRequest
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
