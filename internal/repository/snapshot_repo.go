package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsvdm/fieldtrack/internal/domain"
)

// SnapshotRepository persists aggregation runs.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a SnapshotRepository.
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create persists a report as a snapshot with its rows and returns it.
func (r *SnapshotRepository) Create(ctx context.Context, report *domain.Report) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{
		ID:             uuid.New().String(),
		DateFrom:       report.Window.From,
		DateTo:         report.Window.To,
		TotalCompleted: report.TotalCompleted(),
		TotalTarget:    report.TotalTarget(),
	}
	for _, row := range report.Rows {
		snapshot.Rows = append(snapshot.Rows, domain.SnapshotRow{
			Market:    row.Market,
			Category:  row.Category,
			Platform:  row.Platform,
			Completed: row.Completed,
			Target:    row.Target,
			Pct:       row.Pct,
			Status:    row.Status,
		})
	}

	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	return snapshot, nil
}

// ListRecent returns the latest snapshots without their rows, newest first.
func (r *SnapshotRepository) ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	var snapshots []domain.Snapshot
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// GetByID returns one snapshot with its rows.
func (r *SnapshotRepository) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := r.db.WithContext(ctx).
		Preload("Rows").
		First(&snapshot, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("snapshot %s not found", id)
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return &snapshot, nil
}
