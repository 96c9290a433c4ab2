package http

import (
	"net/http"
	"strconv"

	eventDomain "edulend-backend/internal/domain/event"

	"github.com/labstack/echo/v4"
)

type EventHandler struct{ repo eventDomain.Repository }

func NewEventHandler(repo eventDomain.Repository) *EventHandler { return &EventHandler{repo: repo} }

// ListEvents is a poll-based change feed: clients remember the last id they
// saw and ask for everything after it.
func (h *EventHandler) ListEvents(c echo.Context) error {
	var afterID uint64
	if v := c.QueryParam("after_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid after_id"})
		}
		afterID = n
	}
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = n
	}
	events, err := h.repo.ListAfter(c.Request().Context(), afterID, limit)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"events": events})
}
