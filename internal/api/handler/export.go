package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larsvdm/fieldtrack/internal/api/middleware"
	"github.com/larsvdm/fieldtrack/internal/service"
	"github.com/larsvdm/fieldtrack/internal/storage"
)

// ExportHandler renders the progress report as an XLSX workbook, either as a
// direct download or published to object storage.
type ExportHandler struct {
	tracker   ProgressService
	store     storage.ObjectStorage // nil when storage is disabled
	exportKey string
}

// NewExportHandler creates an export handler.
func NewExportHandler(tracker ProgressService, store storage.ObjectStorage, exportKey string) *ExportHandler {
	return &ExportHandler{tracker: tracker, store: store, exportKey: exportKey}
}

// Export streams the report workbook. With publish=true the workbook is also
// uploaded to object storage under the configured key.
// GET /api/v1/export?from=...&to=...&publish=true
func (h *ExportHandler) Export(c *gin.Context) {
	window := h.tracker.DefaultWindow()
	if from := c.Query("from"); from != "" {
		window.From = from
	}
	if to := c.Query("to"); to != "" {
		window.To = to
	}

	report, err := h.tracker.Progress(c.Request.Context(), window, false)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to build progress report")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to build progress report"})
		return
	}

	if c.Query("publish") == "true" {
		if h.store == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "object storage is not enabled"})
			return
		}
		url, err := service.PublishReport(c.Request.Context(), h.store, h.exportKey, report)
		if err != nil {
			middleware.GetLogger(c).WithError(err).Error("Failed to publish report")
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to publish report"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": h.exportKey, "url": url})
		return
	}

	data, err := service.WorkbookBytes(report)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to render workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render workbook"})
		return
	}

	filename := fmt.Sprintf("progress_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, service.XLSXContentType, data)
}
