package http

import (
	"net/http"
	"strings"

	achDomain "edulend-backend/internal/domain/achievement"
	achuc "edulend-backend/internal/usecase/achievement"

	"github.com/labstack/echo/v4"
)

type AchievementHandler struct{ uc *achuc.Usecase }

func NewAchievementHandler(uc *achuc.Usecase) *AchievementHandler {
	return &AchievementHandler{uc: uc}
}

type mintAchievementReq struct {
	Owner    string `json:"owner" validate:"required,addr"`
	Type     string `json:"type" validate:"required,oneof=FIRST_LOAN FULL_REPAYMENT LOYAL_BORROWER"`
	Metadata string `json:"metadata"`
}

func (h *AchievementHandler) Mint(c echo.Context) error {
	caller, err := callerAddress(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	var req mintAchievementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Mint(c.Request().Context(), caller, req.Owner, achDomain.Type(req.Type), req.Metadata)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AchievementHandler) GetAchievement(c echo.Context) error {
	tokenID, err := paramUint64(c, "token_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid token_id path param"})
	}
	dto, err := h.uc.GetAchievement(c.Request().Context(), tokenID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AchievementHandler) GetUserAchievements(c echo.Context) error {
	address := strings.ToLower(c.Param("address"))
	if !reAddr.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	ids, err := h.uc.GetUserAchievements(c.Request().Context(), address)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"address": address, "token_ids": ids})
}

func (h *AchievementHandler) TotalSupply(c echo.Context) error {
	n, err := h.uc.TotalSupply(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"total_supply": n})
}
