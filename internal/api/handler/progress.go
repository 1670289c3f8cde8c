package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/larsvdm/fieldtrack/internal/api/middleware"
	"github.com/larsvdm/fieldtrack/internal/domain"
)

// ProgressService builds merged progress reports. Satisfied by
// service.Tracker.
type ProgressService interface {
	Progress(ctx context.Context, window domain.Window, refresh bool) (*domain.Report, error)
	DefaultWindow() domain.Window
}

// ProgressHandler serves the aggregated progress and diagnostics endpoints.
type ProgressHandler struct {
	tracker ProgressService
}

// NewProgressHandler creates a progress handler.
func NewProgressHandler(tracker ProgressService) *ProgressHandler {
	return &ProgressHandler{tracker: tracker}
}

// windowFromQuery reads the optional from/to date parameters, falling back to
// the configured reporting window.
func (h *ProgressHandler) windowFromQuery(c *gin.Context) domain.Window {
	window := h.tracker.DefaultWindow()
	if from := c.Query("from"); from != "" {
		window.From = from
	}
	if to := c.Query("to"); to != "" {
		window.To = to
	}
	return window
}

// GetProgress returns the merged progress report.
// GET /api/v1/progress?from=YYYY-MM-DD&to=YYYY-MM-DD&refresh=true
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	window := h.windowFromQuery(c)
	refresh := c.Query("refresh") == "true"

	report, err := h.tracker.Progress(c.Request.Context(), window, refresh)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to build progress report")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to build progress report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window":          report.Window,
		"generated_at":    report.GeneratedAt,
		"total_completed": report.TotalCompleted(),
		"total_target":    report.TotalTarget(),
		"rows":            report.Rows,
	})
}

// GetDiagnostics returns per-connector diagnostics for the latest report.
// GET /api/v1/diagnostics?from=...&to=...
func (h *ProgressHandler) GetDiagnostics(c *gin.Context) {
	window := h.windowFromQuery(c)

	report, err := h.tracker.Progress(c.Request.Context(), window, false)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to build progress report")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to build progress report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window":      report.Window,
		"diagnostics": report.Diagnostics,
	})
}
