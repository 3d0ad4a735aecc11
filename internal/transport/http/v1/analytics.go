package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetAnalytics returns the dashboard counters.
// GET /api/analytics
func (h *Handler) GetAnalytics(c echo.Context) error {
	analytics, err := h.service.GetAnalytics(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, analytics)
}

// SummariesByType counts summaries per strategy.
// GET /api/analytics/by-type
func (h *Handler) SummariesByType(c echo.Context) error {
	counts, err := h.service.SummariesByType(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

// SummariesByStatus counts summaries per status.
// GET /api/analytics/by-status
func (h *Handler) SummariesByStatus(c echo.Context) error {
	counts, err := h.service.SummariesByStatus(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}
