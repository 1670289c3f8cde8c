package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/larsvdm/fieldtrack/internal/api/middleware"
	"github.com/larsvdm/fieldtrack/internal/domain"
)

// SnapshotReader lists persisted aggregation runs. Satisfied by
// repository.SnapshotRepository.
type SnapshotReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error)
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
}

// SnapshotsHandler serves historical snapshots.
type SnapshotsHandler struct {
	repo SnapshotReader
}

// NewSnapshotsHandler creates a snapshots handler.
func NewSnapshotsHandler(repo SnapshotReader) *SnapshotsHandler {
	return &SnapshotsHandler{repo: repo}
}

// ListSnapshots returns recent snapshots, newest first.
// GET /api/v1/snapshots?limit=20
func (h *SnapshotsHandler) ListSnapshots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	snapshots, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to list snapshots")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list snapshots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

// GetSnapshot returns one snapshot with its rows.
// GET /api/v1/snapshots/:id
func (h *SnapshotsHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
