// Package v1 provides the /api HTTP handlers.
package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: service,
		logger:  logger.Named("http"),
	}
}

// RegisterRoutes registers the /api routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/health", h.Health)

	// Threads
	api.POST("/threads/import", h.ImportThreads)
	api.GET("/threads", h.ListThreads)
	api.GET("/threads/:thread_id", h.GetThread)
	api.DELETE("/threads/:thread_id", h.DeleteThread)
	api.POST("/threads/:thread_id/summarize", h.SummarizeThread)
	api.GET("/threads/:thread_id/audit", h.GetThreadAudit)

	// Summaries
	api.GET("/summaries", h.ListSummaries)
	api.GET("/summaries/:id", h.GetSummary)
	api.PUT("/summaries/:id/edit", h.EditSummary)
	api.POST("/summaries/:id/approve", h.ApproveSummary)
	api.POST("/summaries/:id/reject", h.RejectSummary)
	api.GET("/export/:id", h.ExportSummary)

	// Analytics
	api.GET("/analytics", h.GetAnalytics)
	api.GET("/analytics/by-type", h.SummariesByType)
	api.GET("/analytics/by-status", h.SummariesByStatus)

	api.GET("/jobs/:job_id", h.GetJob)
}

// Health returns health status and the active summarization method.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Health())
}

// respondError maps service errors onto status codes. Unexpected errors
// are logged and hidden from the client.
func (h *Handler) respondError(c echo.Context, err error) error {
	switch {
	case service.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	h.logger.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func summaryID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
