package domain

import (
	"math"
	"time"
)

// Status labels the completion state of a progress row.
type Status string

const (
	StatusComplete Status = "complete"
	StatusOnTrack  Status = "on_track"
	StatusAtRisk   Status = "at_risk"
	StatusCritical Status = "critical"
	StatusPending  Status = "pending"
)

// Completion returns the completion percentage rounded to one decimal.
// A zero or absent target yields 0, never a division error: no target
// means no percentage is meaningful yet.
func Completion(completed, target int) float64 {
	if target <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(target)*1000) / 10
}

// StatusFor derives the status label from a completion percentage.
// Thresholds are evaluated in descending order so boundary values
// resolve deterministically (exactly 100 is complete, exactly 60 is
// on_track).
func StatusFor(pct float64) Status {
	switch {
	case pct >= 100:
		return StatusComplete
	case pct >= 60:
		return StatusOnTrack
	case pct >= 30:
		return StatusAtRisk
	case pct > 0:
		return StatusCritical
	default:
		return StatusPending
	}
}

// Window is an inclusive calendar date window in YYYY-MM-DD form.
type Window struct {
	From string `json:"date_from"`
	To   string `json:"date_to"`
}

// DayStart returns the window start expanded to a day-start timestamp.
func (w Window) DayStart() string {
	return w.From + "T00:00:00"
}

// DayEnd returns the window end expanded to a day-end timestamp.
func (w Window) DayEnd() string {
	return w.To + "T23:59:59"
}

// ProgressRow is one aggregated (market, category, platform) output record.
type ProgressRow struct {
	Market     string    `json:"market"`
	MarketName string    `json:"market_name,omitempty"`
	Category   string    `json:"category"`
	Platform   string    `json:"platform"`
	Completed  int       `json:"completed"`
	Target     int       `json:"target"`
	Pct        float64   `json:"pct"`
	Status     Status    `json:"status"`
	DateFrom   string    `json:"date_from,omitempty"`
	DateTo     string    `json:"date_to,omitempty"`
	UpdatedAt  time.Time `json:"last_updated"`
	Note       string    `json:"note,omitempty"`
}

// JobError records a per-job fetch failure with the attempted canonical key.
type JobError struct {
	JobID    string `json:"job_id"`
	Market   string `json:"market"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

// Diagnostics explains what the connector saw, so operators can tell why a
// job was excluded or misclassified. This is a hard output requirement of
// the heuristic classifier, not optional logging.
type Diagnostics struct {
	Platform             string     `json:"platform"`
	TotalJobs            int        `json:"total_jobs"`
	SkippedUnknownMarket int        `json:"skipped_unknown_market"`
	UnknownTitles        []string   `json:"unknown_titles,omitempty"` // raw titles of skipped jobs
	FailedJobs           []JobError `json:"failed_jobs,omitempty"`
	MarketsFound         []string   `json:"markets_found,omitempty"`
}

// Report bundles progress rows with the diagnostics produced alongside them.
type Report struct {
	Rows        []ProgressRow  `json:"rows"`
	Diagnostics []*Diagnostics `json:"diagnostics,omitempty"`
	Window      Window         `json:"window"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// TotalCompleted sums completed visits across all rows.
func (r *Report) TotalCompleted() int {
	total := 0
	for _, row := range r.Rows {
		total += row.Completed
	}
	return total
}

// TotalTarget sums configured targets across all rows.
func (r *Report) TotalTarget() int {
	total := 0
	for _, row := range r.Rows {
		total += row.Target
	}
	return total
}
