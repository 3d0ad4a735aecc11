package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

var errInvalidSummaryID = map[string]string{"error": "invalid summary id"}

// ListSummaries lists summaries, optionally filtered by status.
// GET /api/summaries?status=
func (h *Handler) ListSummaries(c echo.Context) error {
	summaries, err := h.service.ListSummaries(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetSummary gets a summary by ID.
// GET /api/summaries/:id
func (h *Handler) GetSummary(c echo.Context) error {
	id, ok := summaryID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errInvalidSummaryID)
	}
	summary, err := h.service.GetSummary(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// EditSummary replaces the edited payload of a summary.
// PUT /api/summaries/:id/edit
func (h *Handler) EditSummary(c echo.Context) error {
	id, ok := summaryID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errInvalidSummaryID)
	}

	var req domain.EditSummaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.EditSummary(c.Request().Context(), id, req); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ApproveSummary approves a summary.
// POST /api/summaries/:id/approve
func (h *Handler) ApproveSummary(c echo.Context) error {
	id, ok := summaryID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errInvalidSummaryID)
	}

	var req domain.ApproveSummaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.ApproveSummary(c.Request().Context(), id, req); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// RejectSummary rejects a summary.
// POST /api/summaries/:id/reject
func (h *Handler) RejectSummary(c echo.Context) error {
	id, ok := summaryID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errInvalidSummaryID)
	}

	var req domain.RejectSummaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.RejectSummary(c.Request().Context(), id, req); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ExportSummary returns the CRM record of an approved summary.
// GET /api/export/:id
func (h *Handler) ExportSummary(c echo.Context) error {
	id, ok := summaryID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errInvalidSummaryID)
	}

	record, err := h.service.ExportSummary(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if record == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Summary not found or not approved"})
	}
	return c.JSON(http.StatusOK, record)
}
