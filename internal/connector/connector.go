// Package connector defines the vendor platform connector interface and
// helpers shared by the per-vendor implementations.
package connector

import (
	"context"

	"github.com/larsvdm/fieldtrack/internal/domain"
)

// Connector is implemented by each vendor platform integration. A connector
// must always return something renderable: when its API is not configured it
// returns clearly-labeled placeholder rows instead of failing.
type Connector interface {
	// Platform returns the stable platform identifier (roamler, wiser, pinion).
	Platform() string

	// Progress returns the platform's progress rows for the date window,
	// plus diagnostics describing what was fetched, skipped or failed.
	// A non-nil error means the platform could produce no rows at all;
	// partial failures are reported through diagnostics, not errors.
	Progress(ctx context.Context, window domain.Window) ([]domain.ProgressRow, *domain.Diagnostics, error)
}
