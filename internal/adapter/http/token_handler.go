package http

import (
	"net/http"
	"strings"

	"edulend-backend/internal/usecase/token"

	"github.com/labstack/echo/v4"
)

type TokenHandler struct{ uc *token.Usecase }

func NewTokenHandler(uc *token.Usecase) *TokenHandler { return &TokenHandler{uc: uc} }

type mintReq struct {
	To     string `json:"to" validate:"required,addr"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type burnReq struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type transferReq struct {
	To     string `json:"to" validate:"required,addr"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type approveReq struct {
	Spender string `json:"spender" validate:"required,addr"`
	Amount  int64  `json:"amount" validate:"gte=0"`
}

type transferFromReq struct {
	From   string `json:"from" validate:"required,addr"`
	To     string `json:"to" validate:"required,addr"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type grantReq struct {
	Address string `json:"address" validate:"required,addr"`
}

type depositCollateralReq struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func symbolParam(c echo.Context) string { return strings.ToUpper(c.Param("symbol")) }

func (h *TokenHandler) bindAndValidate(c echo.Context, req any) (string, bool) {
	caller, err := callerAddress(c)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return "", false
	}
	if err := c.Bind(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		return "", false
	}
	if err := c.Validate(req); err != nil {
		_ = c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
		return "", false
	}
	return caller, true
}

func (h *TokenHandler) Mint(c echo.Context) error {
	var req mintReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	if err := h.uc.Mint(c.Request().Context(), caller, symbolParam(c), req.To, req.Amount); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"to": req.To, "amount": req.Amount})
}

func (h *TokenHandler) Burn(c echo.Context) error {
	var req burnReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	if err := h.uc.Burn(c.Request().Context(), caller, symbolParam(c), req.Amount); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"burned": req.Amount})
}

func (h *TokenHandler) Transfer(c echo.Context) error {
	var req transferReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	if err := h.uc.Transfer(c.Request().Context(), caller, symbolParam(c), req.To, req.Amount); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"to": req.To, "amount": req.Amount})
}

func (h *TokenHandler) Approve(c echo.Context) error {
	var req approveReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	if err := h.uc.Approve(c.Request().Context(), caller, symbolParam(c), req.Spender, req.Amount); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"spender": req.Spender, "amount": req.Amount})
}

func (h *TokenHandler) TransferFrom(c echo.Context) error {
	var req transferFromReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	if err := h.uc.TransferFrom(c.Request().Context(), caller, symbolParam(c), req.From, req.To, req.Amount); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"from": req.From, "to": req.To, "amount": req.Amount})
}

func (h *TokenHandler) AddMinter(c echo.Context) error {
	var req grantReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	if err := h.uc.AddMinter(c.Request().Context(), caller, req.Address); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"address": req.Address, "capability": "minter"})
}

func (h *TokenHandler) AddBridge(c echo.Context) error {
	var req grantReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	if err := h.uc.AddBridge(c.Request().Context(), caller, req.Address); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"address": req.Address, "capability": "bridge"})
}

// Faucet dispenses test MBTC to the caller.
func (h *TokenHandler) Faucet(c echo.Context) error {
	caller, err := callerAddress(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	amount, err := h.uc.Faucet(c.Request().Context(), caller)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"address": caller, "amount": amount})
}

// DepositCollateral converts MBTC collateral into freshly minted MUSD.
func (h *TokenHandler) DepositCollateral(c echo.Context) error {
	var req depositCollateralReq
	caller, ok := h.bindAndValidate(c, &req)
	if !ok {
		return nil
	}
	minted, err := h.uc.DepositCollateralAndMintMUSD(c.Request().Context(), caller, req.Amount)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"collateral": req.Amount, "minted": minted})
}

func (h *TokenHandler) BalanceOf(c echo.Context) error {
	address := strings.ToLower(c.Param("address"))
	if !reAddr.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	dto, err := h.uc.BalanceOf(c.Request().Context(), symbolParam(c), address)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TokenHandler) TokenInfo(c echo.Context) error {
	dto, err := h.uc.TokenInfo(c.Request().Context(), symbolParam(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
