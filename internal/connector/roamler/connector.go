package roamler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/larsvdm/fieldtrack/internal/classify"
	"github.com/larsvdm/fieldtrack/internal/domain"
	"github.com/larsvdm/fieldtrack/internal/logger"
)

// Platform is the stable identifier of this connector.
const Platform = "roamler"

const (
	defaultWorkers = 10
	// maxUnknownTitleSamples caps how many raw titles of skipped jobs are
	// carried in diagnostics.
	maxUnknownTitleSamples = 10
)

// Connector aggregates Roamler jobs and submission counts into progress
// rows keyed by canonical (market, category).
type Connector struct {
	client     *Client
	classifier *classify.Classifier
	workers    int
	log        *logger.Logger
}

// Config holds connector tuning.
type Config struct {
	Workers int // concurrent submission fetches; jobs are independent units
}

// NewConnector creates a Connector around the given client.
func NewConnector(client *Client, classifier *classify.Classifier, cfg *Config, log *logger.Logger) *Connector {
	workers := defaultWorkers
	if cfg != nil && cfg.Workers > 0 {
		workers = cfg.Workers
	}
	if classifier == nil {
		classifier = classify.New()
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Connector{
		client:     client,
		classifier: classifier,
		workers:    workers,
		log:        log,
	}
}

// Platform returns the connector's platform identifier.
func (c *Connector) Platform() string {
	return Platform
}

// classifiedJob pairs a raw job with its parsed canonical key.
type classifiedJob struct {
	job Job
	key classify.Key
}

// fetchResult is one worker's output: an independent (key, count, error)
// tuple folded single-threaded after all workers complete.
type fetchResult struct {
	jobID string
	key   classify.Key
	count int
	err   error
}

// Progress fetches all jobs, classifies them, counts submissions per job
// within the window using a bounded worker pool, and folds the counts into
// per-(market, category) rows. Jobs with an unknown market are excluded from
// the totals but reported through diagnostics; a failure on one job's
// submissions never aborts the others.
func (c *Connector) Progress(ctx context.Context, window domain.Window) ([]domain.ProgressRow, *domain.Diagnostics, error) {
	if !c.client.Configured() {
		c.log.Warn("Roamler API not configured, returning placeholder rows")
		return stubRows(window), &domain.Diagnostics{Platform: Platform}, nil
	}

	jobs, err := c.client.FetchAllJobs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	diag := &domain.Diagnostics{
		Platform:  Platform,
		TotalJobs: len(jobs),
	}

	valid := make([]classifiedJob, 0, len(jobs))
	for _, job := range jobs {
		key := c.classifier.Classify(job.WorkingTitle, job.Title)
		if key.Unknown() {
			diag.SkippedUnknownMarket++
			if len(diag.UnknownTitles) < maxUnknownTitleSamples {
				diag.UnknownTitles = append(diag.UnknownTitles, job.WorkingTitle)
			}
			continue
		}
		valid = append(valid, classifiedJob{job: job, key: key})
	}

	counts := c.countSubmissions(ctx, valid, window, diag)

	now := time.Now().UTC()
	rows := make([]domain.ProgressRow, 0, len(counts))
	markets := map[string]struct{}{}
	for key, completed := range counts {
		markets[key.Market] = struct{}{}
		rows = append(rows, domain.ProgressRow{
			Market:    key.Market,
			Category:  key.Category,
			Platform:  Platform,
			Completed: completed,
			Status:    domain.StatusPending, // pct and status finalised after targets merge
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

	diag.MarketsFound = sortedKeys(markets)

	c.log.WithFields(logger.Fields{
		logger.FieldPlatform: Platform,
		"total_jobs":         diag.TotalJobs,
		"skipped":            diag.SkippedUnknownMarket,
		"failed":             len(diag.FailedJobs),
		"rows":               len(rows),
	}).Info("Roamler progress aggregated")

	return rows, diag, nil
}

// countSubmissions runs the bounded worker pool over the classified jobs and
// folds results single-threaded, so no shared state is written concurrently.
func (c *Connector) countSubmissions(ctx context.Context, valid []classifiedJob, window domain.Window, diag *domain.Diagnostics) map[classify.Key]int {
	jobsChan := make(chan classifiedJob)
	resultsChan := make(chan fetchResult)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cj := range jobsChan {
				count, err := c.client.CountSubmissions(ctx, cj.job.ID, window)
				resultsChan <- fetchResult{jobID: cj.job.ID, key: cj.key, count: count, err: err}
			}
		}()
	}

	go func() {
		defer close(jobsChan)
		for _, cj := range valid {
			select {
			case jobsChan <- cj:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	counts := make(map[classify.Key]int)
	for res := range resultsChan {
		if res.err != nil {
			diag.FailedJobs = append(diag.FailedJobs, domain.JobError{
				JobID:    res.jobID,
				Market:   res.key.Market,
				Category: res.key.Category,
				Error:    res.err.Error(),
			})
			c.log.WithFields(logger.Fields{
				logger.FieldJobID:    res.jobID,
				logger.FieldMarket:   res.key.Market,
				logger.FieldCategory: res.key.Category,
			}).WithError(res.err).Warn("Skipping job, submissions fetch failed")
			continue
		}
		counts[res.key] += res.count
	}

	sort.Slice(diag.FailedJobs, func(i, j int) bool {
		return diag.FailedJobs[i].JobID < diag.FailedJobs[j].JobID
	})

	return counts
}

// JobDebugRow is one job with its parsed fields, used by the diagnostics
// surface to investigate missing submissions and misclassified titles.
type JobDebugRow struct {
	ID           string `json:"id"`
	Market       string `json:"market"`
	Category     string `json:"category"`
	WorkingTitle string `json:"working_title"`
	Title        string `json:"title"`
	// Submissions: >=0 actual count, -1 skipped (unknown market),
	// -2 fetch error (see Error).
	Submissions int    `json:"submissions"`
	Error       string `json:"error,omitempty"`
}

// DebugJobs returns every job with its parsed canonical key and, when
// withCounts is set, the submission count inside the window. Fetch errors
// are recorded per row, never propagated.
func (c *Connector) DebugJobs(ctx context.Context, window domain.Window, withCounts bool) ([]JobDebugRow, *domain.Diagnostics, error) {
	if !c.client.Configured() {
		return nil, nil, ErrNotConfigured
	}

	jobs, err := c.client.FetchAllJobs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	diag := &domain.Diagnostics{Platform: Platform, TotalJobs: len(jobs)}
	markets := map[string]struct{}{}

	rows := make([]JobDebugRow, 0, len(jobs))
	for _, job := range jobs {
		key := c.classifier.Classify(job.WorkingTitle, job.Title)
		row := JobDebugRow{
			ID:           job.ID,
			Market:       key.Market,
			Category:     key.Category,
			WorkingTitle: job.WorkingTitle,
			Title:        job.Title,
		}
		if key.Unknown() {
			diag.SkippedUnknownMarket++
			row.Submissions = -1
		} else {
			markets[key.Market] = struct{}{}
			if withCounts {
				count, err := c.client.CountSubmissions(ctx, job.ID, window)
				if err != nil {
					row.Submissions = -2
					row.Error = err.Error()
				} else {
					row.Submissions = count
				}
			}
		}
		rows = append(rows, row)
	}

	diag.MarketsFound = sortedKeys(markets)
	return rows, diag, nil
}

// stubRows is the placeholder matrix rendered while credentials are absent,
// so the dashboard has something to show before API access is set up.
func stubRows(window domain.Window) []domain.ProgressRow {
	now := time.Now().UTC()
	var rows []domain.ProgressRow
	for _, market := range []string{"DE", "FR", "NL", "UK", "TR"} {
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

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
