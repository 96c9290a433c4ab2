package http

import (
	"net/http"
	"strings"

	"edulend-backend/internal/usecase/pool"

	"github.com/labstack/echo/v4"
)

type PoolHandler struct{ uc *pool.Usecase }

func NewPoolHandler(uc *pool.Usecase) *PoolHandler { return &PoolHandler{uc: uc} }

type contributeReq struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (h *PoolHandler) Contribute(c echo.Context) error {
	caller, err := callerAddress(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	var req contributeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Contribute(c.Request().Context(), caller, req.Amount)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PoolHandler) GetLenderStats(c echo.Context) error {
	address := strings.ToLower(c.Param("address"))
	if !reAddr.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	dto, err := h.uc.GetLenderStats(c.Request().Context(), address)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PoolHandler) GetState(c echo.Context) error {
	dto, err := h.uc.GetState(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
