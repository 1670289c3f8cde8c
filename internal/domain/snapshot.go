package domain

import "time"

// Snapshot is one persisted aggregation run, kept so fieldwork progress can
// be compared over time.
type Snapshot struct {
	ID             string        `gorm:"type:text;primaryKey" json:"id"`
	DateFrom       string        `gorm:"type:text" json:"date_from"`
	DateTo         string        `gorm:"type:text" json:"date_to"`
	TotalCompleted int           `gorm:"default:0" json:"total_completed"`
	TotalTarget    int           `gorm:"default:0" json:"total_target"`
	Rows           []SnapshotRow `gorm:"foreignKey:SnapshotID" json:"rows,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// TableName returns the database table name for Snapshot.
func (Snapshot) TableName() string {
	return "progress_snapshots"
}

// SnapshotRow is one persisted progress row belonging to a Snapshot.
type SnapshotRow struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	SnapshotID string  `gorm:"type:text;not null;index" json:"-"`
	Market     string  `gorm:"type:text;not null" json:"market"`
	Category   string  `gorm:"type:text;not null" json:"category"`
	Platform   string  `gorm:"type:text;not null" json:"platform"`
	Completed  int     `gorm:"default:0" json:"completed"`
	Target     int     `gorm:"default:0" json:"target"`
	Pct        float64 `gorm:"default:0" json:"pct"`
	Status     Status  `gorm:"type:text" json:"status"`
}

// TableName returns the database table name for SnapshotRow.
func (SnapshotRow) TableName() string {
	return "progress_snapshot_rows"
}
