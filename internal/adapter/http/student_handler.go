package http

import (
	"net/http"
	"strings"

	"edulend-backend/internal/usecase/registry"

	"github.com/labstack/echo/v4"
)

type StudentHandler struct{ uc *registry.Usecase }

func NewStudentHandler(uc *registry.Usecase) *StudentHandler { return &StudentHandler{uc: uc} }

type addVerifierReq struct {
	Address string `json:"address" validate:"required,addr"`
}

// VerifyStudent marks the path address as a verified student. Caller must be
// on the verifier allow-list.
func (h *StudentHandler) VerifyStudent(c echo.Context) error {
	caller, err := callerAddress(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	address := strings.ToLower(c.Param("address"))
	if !reAddr.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	dto, err := h.uc.VerifyStudent(c.Request().Context(), caller, address)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StudentHandler) AddVerifier(c echo.Context) error {
	caller, err := callerAddress(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	var req addVerifierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.uc.AddVerifier(c.Request().Context(), caller, req.Address); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"address": req.Address, "capability": "verifier"})
}

func (h *StudentHandler) GetStudent(c echo.Context) error {
	address := strings.ToLower(c.Param("address"))
	if !reAddr.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	dto, err := h.uc.GetStudent(c.Request().Context(), address)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
