package wiser

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/larsvdm/fieldtrack/internal/connector"
	"github.com/larsvdm/fieldtrack/internal/domain"
	"github.com/larsvdm/fieldtrack/internal/logger"
)

// Platform is the stable identifier of this connector.
const Platform = "wiser"

const (
	progressPath   = "/api/projects/versuni-wave3/progress"
	requestTimeout = 30 * time.Second
)

// Config holds the Wiser connection settings. Wiser covers the AU and US
// fieldwork; until API access is granted the connector falls back to a
// manually supplied XLSX export, then to placeholder rows.
type Config struct {
	BaseURL    string
	APIKey     string
	ManualPath string
}

// Connector reads checkout progress from the Wiser project API.
type Connector struct {
	cfg  Config
	http *resty.Client
	log  *logger.Logger
}

// New creates a Wiser connector.
func New(cfg Config, log *logger.Logger) *Connector {
	if log == nil {
		log = logger.GetDefault()
	}
	client := resty.New()
	client.SetTimeout(requestTimeout)
	client.SetHeader("Accept", "application/json")
	return &Connector{cfg: cfg, http: client, log: log}
}

// Platform returns the connector's platform identifier.
func (c *Connector) Platform() string {
	return Platform
}

// progressResponse is the Wiser project progress envelope.
type progressResponse struct {
	Results []struct {
		Market        string `json:"market"`
		Category      string `json:"category"`
		TotalAssigned int    `json:"total_assigned"`
		Completed     int    `json:"completed"`
	} `json:"results"`
}

// Progress returns per-(market, category) rows. Wiser reports its own targets
// (total_assigned), which downstream merging keeps unless the tracker has an
// explicit override.
func (c *Connector) Progress(ctx context.Context, window domain.Window) ([]domain.ProgressRow, *domain.Diagnostics, error) {
	diag := &domain.Diagnostics{Platform: Platform}

	if c.cfg.BaseURL == "" || c.cfg.APIKey == "" {
		if c.cfg.ManualPath != "" {
			rows, err := connector.LoadManualExport(c.cfg.ManualPath, Platform)
			if err != nil {
				return nil, nil, fmt.Errorf("wiser manual export: %w", err)
			}
			c.log.WithField(logger.FieldCount, len(rows)).Info("Loaded Wiser progress from manual export")
			return stamp(rows, window), diag, nil
		}
		c.log.Warn("Wiser API not configured, returning placeholder rows")
		return stubRows(window), diag, nil
	}

	var payload progressResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetQueryParams(map[string]string{
			"from": window.From,
			"to":   window.To,
		}).
		SetResult(&payload).
		Get(c.cfg.BaseURL + progressPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to call wiser progress endpoint: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, nil, fmt.Errorf("wiser progress endpoint returned status %d", resp.StatusCode())
	}

	now := time.Now().UTC()
	markets := map[string]struct{}{}
	rows := make([]domain.ProgressRow, 0, len(payload.Results))
	for _, r := range payload.Results {
		diag.TotalJobs++
		if r.Market == "" || r.Category == "" {
			diag.SkippedUnknownMarket++
			continue
		}
		markets[r.Market] = struct{}{}
		pct := domain.Completion(r.Completed, r.TotalAssigned)
		rows = append(rows, domain.ProgressRow{
			Market:    r.Market,
			Category:  r.Category,
			Platform:  Platform,
			Completed: r.Completed,
			Target:    r.TotalAssigned,
			Pct:       pct,
			Status:    domain.StatusFor(pct),
			DateFrom:  window.From,
			DateTo:    window.To,
			UpdatedAt: now,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Market != rows[j].Market {
			return rows[i].Market < rows[j].Market
		}
		return rows[i].Category < rows[j].Category
	})

	for m := range markets {
		diag.MarketsFound = append(diag.MarketsFound, m)
	}
	sort.Strings(diag.MarketsFound)

	return rows, diag, nil
}

func stamp(rows []domain.ProgressRow, window domain.Window) []domain.ProgressRow {
	for i := range rows {
		rows[i].DateFrom = window.From
		rows[i].DateTo = window.To
	}
	return rows
}

func stubRows(window domain.Window) []domain.ProgressRow {
	now := time.Now().UTC()
	var rows []domain.ProgressRow
	for _, market := range []string{"AU", "US"} {
		for _, category := range []string{"FAEM", "Airfryer"} {
			rows = append(rows, domain.ProgressRow{
				Market:    market,
				Category:  category,
				Platform:  Platform,
				Status:    domain.StatusPending,
				DateFrom:  window.From,
				DateTo:    window.To,
				UpdatedAt: now,
				Note:      "API not yet configured",
			})
		}
	}
	return rows
}
