package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/larsvdm/fieldtrack/internal/api/middleware"
	"github.com/larsvdm/fieldtrack/internal/connector/roamler"
	"github.com/larsvdm/fieldtrack/internal/domain"
)

// JobDebugger exposes the raw job listing with classification results.
// Satisfied by roamler.Connector.
type JobDebugger interface {
	DebugJobs(ctx context.Context, window domain.Window, withCounts bool) ([]roamler.JobDebugRow, *domain.Diagnostics, error)
}

// JobsHandler serves the job-level debug endpoint used to investigate
// title classification and missing submissions.
type JobsHandler struct {
	debugger JobDebugger
	window   domain.Window
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(debugger JobDebugger, defaultWindow domain.Window) *JobsHandler {
	return &JobsHandler{debugger: debugger, window: defaultWindow}
}

// ListJobs returns every vendor job with its parsed market and category.
// GET /api/v1/jobs?with_counts=true&from=...&to=...
func (h *JobsHandler) ListJobs(c *gin.Context) {
	window := h.window
	if from := c.Query("from"); from != "" {
		window.From = from
	}
	if to := c.Query("to"); to != "" {
		window.To = to
	}
	withCounts := c.Query("with_counts") == "true"

	rows, diag, err := h.debugger.DebugJobs(c.Request.Context(), window, withCounts)
	if err != nil {
		if errors.Is(err, roamler.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "roamler API not configured"})
			return
		}
		middleware.GetLogger(c).WithError(err).Error("Failed to list jobs")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window":      window,
		"with_counts": withCounts,
		"jobs":        rows,
		"diagnostics": diag,
	})
}
