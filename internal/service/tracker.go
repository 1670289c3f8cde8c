package service

import (
	"context"
	"sort"
	"time"

	"github.com/larsvdm/fieldtrack/internal/connector"
	"github.com/larsvdm/fieldtrack/internal/domain"
	"github.com/larsvdm/fieldtrack/internal/logger"
	"github.com/larsvdm/fieldtrack/internal/targets"
)

// SnapshotWriter persists finished reports. Satisfied by
// repository.SnapshotRepository; nil disables persistence.
type SnapshotWriter interface {
	Create(ctx context.Context, report *domain.Report) (*domain.Snapshot, error)
}

// Tracker gathers progress from all vendor connectors, merges configured
// targets in, and derives final percentages and statuses.
type Tracker struct {
	connectors []connector.Connector
	targets    *targets.Store
	snapshots  SnapshotWriter
	cache      *reportCache
	window     domain.Window
	log        *logger.Logger
}

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	Targets       *targets.Store
	Snapshots     SnapshotWriter
	CacheTTL      time.Duration
	DefaultWindow domain.Window
}

// NewTracker creates a Tracker over the given connectors.
func NewTracker(connectors []connector.Connector, opts TrackerOptions, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.GetDefault()
	}
	store := opts.Targets
	if store == nil {
		store, _ = targets.Load("")
	}
	return &Tracker{
		connectors: connectors,
		targets:    store,
		snapshots:  opts.Snapshots,
		cache:      newReportCache(opts.CacheTTL),
		window:     opts.DefaultWindow,
		log:        log,
	}
}

// DefaultWindow returns the configured reporting window.
func (t *Tracker) DefaultWindow() domain.Window {
	return t.window
}

// Progress builds the merged progress report for the window. A failing
// connector contributes a clearly labeled placeholder row instead of sinking
// the whole report. Set refresh to bypass the cache.
func (t *Tracker) Progress(ctx context.Context, window domain.Window, refresh bool) (*domain.Report, error) {
	if window.From == "" {
		window.From = t.window.From
	}
	if window.To == "" {
		window.To = t.window.To
	}

	if !refresh {
		if cached := t.cache.Get(window); cached != nil {
			return cached, nil
		}
	}

	started := time.Now()
	report := &domain.Report{Window: window}

	for _, conn := range t.connectors {
		rows, diag, err := conn.Progress(ctx, window)
		if err != nil {
			t.log.WithField(logger.FieldPlatform, conn.Platform()).
				WithError(err).
				Error("Connector failed, keeping the rest of the report")
			report.Rows = append(report.Rows, domain.ProgressRow{
				Platform:  conn.Platform(),
				Status:    domain.StatusPending,
				DateFrom:  window.From,
				DateTo:    window.To,
				UpdatedAt: time.Now().UTC(),
				Note:      "connector failed: " + err.Error(),
			})
			continue
		}
		report.Rows = append(report.Rows, rows...)
		if diag != nil {
			report.Diagnostics = append(report.Diagnostics, diag)
		}
	}

	t.finalize(report, window)
	report.GeneratedAt = time.Now().UTC()

	if t.snapshots != nil {
		if _, err := t.snapshots.Create(ctx, report); err != nil {
			// Persistence is best effort; the report is still good.
			t.log.WithError(err).Warn("Failed to persist snapshot")
		}
	}

	t.cache.Set(window, report)

	t.log.WithFields(logger.Fields{
		"rows":                 len(report.Rows),
		logger.FieldDurationMs: time.Since(started).Milliseconds(),
	}).Info("Progress report built")

	return report, nil
}

// finalize merges configured targets, recomputes percentages and statuses,
// fills display names, and sorts rows deterministically.
func (t *Tracker) finalize(report *domain.Report, window domain.Window) {
	for i := range report.Rows {
		row := &report.Rows[i]

		// Vendor-reported targets win; the tracker config fills the gaps.
		if row.Target == 0 {
			row.Target = t.targets.Target(row.Market, row.Category)
		}
		row.Pct = domain.Completion(row.Completed, row.Target)
		row.Status = domain.StatusFor(row.Pct)
		if row.Market != "" {
			row.MarketName = t.targets.MarketName(row.Market)
		}
		row.DateFrom = window.From
		row.DateTo = window.To
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		return a.Category < b.Category
	})
}
