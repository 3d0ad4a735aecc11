package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

// ImportThreads imports a batch of threads.
// POST /api/threads/import
func (h *Handler) ImportThreads(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ImportThreadsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	imported, err := h.service.ImportThreads(ctx, req.Threads)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.ImportThreadsResponse{
		Success:  true,
		Imported: imported,
		Total:    len(req.Threads),
	})
}

// ListThreads lists all threads, newest first.
// GET /api/threads
func (h *Handler) ListThreads(c echo.Context) error {
	threads, err := h.service.ListThreads(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, threads)
}

// GetThread gets a thread by ID.
// GET /api/threads/:thread_id
func (h *Handler) GetThread(c echo.Context) error {
	thread, err := h.service.GetThread(c.Request().Context(), c.Param("thread_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, thread)
}

// DeleteThread deletes a thread.
// DELETE /api/threads/:thread_id
func (h *Handler) DeleteThread(c echo.Context) error {
	if err := h.service.DeleteThread(c.Request().Context(), c.Param("thread_id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// SummarizeThread generates a summary for a thread. With ?async=true the
// work runs in the background and a job is returned.
// POST /api/threads/:thread_id/summarize
func (h *Handler) SummarizeThread(c echo.Context) error {
	ctx := c.Request().Context()
	threadID := c.Param("thread_id")

	if async, _ := strconv.ParseBool(c.QueryParam("async")); async {
		job, err := h.service.StartSummarizeJob(ctx, threadID)
		if err != nil {
			return h.respondError(c, err)
		}
		return c.JSON(http.StatusAccepted, job)
	}

	summary, err := h.service.SummarizeThread(ctx, threadID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.SummarizeResponse{
		Success:   true,
		SummaryID: summary.ID,
		Summary:   summary.OriginalSummary,
	})
}

// GetThreadAudit returns a thread's audit trail.
// GET /api/threads/:thread_id/audit
func (h *Handler) GetThreadAudit(c echo.Context) error {
	entries, err := h.service.GetThreadAudit(c.Request().Context(), c.Param("thread_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// GetJob returns the state of a summarize job.
// GET /api/jobs/:job_id
func (h *Handler) GetJob(c echo.Context) error {
	job, err := h.service.GetJob(c.Param("job_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}
