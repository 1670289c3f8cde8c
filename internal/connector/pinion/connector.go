package pinion

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
const Platform = "pinion"

// Market is fixed: Pinion only runs the Brazilian fieldwork.
const Market = "BR"

const (
	progressPath   = "/api/v1/projects/versuni/progress"
	requestTimeout = 30 * time.Second
)

// Config holds the Pinion connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	ManualPath string
}

// Connector reads checkout progress from the Pinion project API.
type Connector struct {
	cfg  Config
	http *resty.Client
	log  *logger.Logger
}

// New creates a Pinion connector.
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

// progressResponse is the Pinion project progress envelope.
type progressResponse struct {
	Data []struct {
		Category  string `json:"category"`
		Quota     int    `json:"quota"`
		Completes int    `json:"completes"`
	} `json:"data"`
}

// Progress returns per-category rows for the BR market.
func (c *Connector) Progress(ctx context.Context, window domain.Window) ([]domain.ProgressRow, *domain.Diagnostics, error) {
	diag := &domain.Diagnostics{Platform: Platform}

	if c.cfg.BaseURL == "" || c.cfg.APIKey == "" {
		if c.cfg.ManualPath != "" {
			rows, err := connector.LoadManualExport(c.cfg.ManualPath, Platform)
			if err != nil {
				return nil, nil, fmt.Errorf("pinion manual export: %w", err)
			}
			c.log.WithField(logger.FieldCount, len(rows)).Info("Loaded Pinion progress from manual export")
			for i := range rows {
				rows[i].DateFrom = window.From
				rows[i].DateTo = window.To
			}
			return rows, diag, nil
		}
		c.log.Warn("Pinion API not configured, returning placeholder rows")
		return stubRows(window), diag, nil
	}

	var payload progressResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.cfg.APIKey).
		SetQueryParams(map[string]string{
			"date_from": window.From,
			"date_to":   window.To,
		}).
		SetResult(&payload).
		Get(c.cfg.BaseURL + progressPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to call pinion progress endpoint: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, nil, fmt.Errorf("pinion progress endpoint returned status %d", resp.StatusCode())
	}

	now := time.Now().UTC()
	rows := make([]domain.ProgressRow, 0, len(payload.Data))
	for _, r := range payload.Data {
		diag.TotalJobs++
		if r.Category == "" {
			diag.SkippedUnknownMarket++
			continue
		}
		pct := domain.Completion(r.Completes, r.Quota)
		rows = append(rows, domain.ProgressRow{
			Market:    Market,
			Category:  r.Category,
			Platform:  Platform,
			Completed: r.Completes,
			Target:    r.Quota,
			Pct:       pct,
			Status:    domain.StatusFor(pct),
			DateFrom:  window.From,
			DateTo:    window.To,
			UpdatedAt: now,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Category < rows[j].Category
	})

	if len(rows) > 0 {
		diag.MarketsFound = []string{Market}
	}

	return rows, diag, nil
}

func stubRows(window domain.Window) []domain.ProgressRow {
	now := time.Now().UTC()
	var rows []domain.ProgressRow
	for _, category := range []string{"FAEM", "Airfryer"} {
		rows = append(rows, domain.ProgressRow{
			Market:    Market,
			Category:  category,
			Platform:  Platform,
			Status:    domain.StatusPending,
			DateFrom:  window.From,
			DateTo:    window.To,
			UpdatedAt: now,
			Note:      "API not yet configured",
		})
	}
	return rows
}
