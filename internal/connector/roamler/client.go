package roamler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/larsvdm/fieldtrack/internal/domain"
	"github.com/larsvdm/fieldtrack/internal/logger"
)

const (
	apiKeyHeader = "X-Roamler-Api-Key"

	// jobsPageSize is generously large to minimise round trips; the server
	// does not guarantee it enforces this, so no stopping condition depends
	// on batches being exactly this size.
	jobsPageSize = 200

	// submissionsPageSize is the empirical upper bound the Submissions
	// endpoint accepts; values above ~500 make the response unusable.
	submissionsPageSize = 500

	totalCountHeader = "X-Paging-TotalRecordCount"

	requestTimeout = 60 * time.Second
)

// ErrNotConfigured signals that no API key is available. Callers substitute
// clearly-labeled placeholder data instead of crashing.
var ErrNotConfigured = errors.New("roamler API key not configured")

// Client talks to the Roamler Customer API and hides its unreliable
// pagination behind complete-collection fetch operations.
type Client struct {
	creds CredentialProvider
	http  *resty.Client
	log   *logger.Logger
}

// NewClient creates a Client. A nil provider defaults to EnvCredentials.
func NewClient(creds CredentialProvider, log *logger.Logger) *Client {
	if creds == nil {
		creds = EnvCredentials{}
	}
	if log == nil {
		log = logger.GetDefault()
	}

	client := resty.New()
	client.SetTimeout(requestTimeout)
	client.SetHeader("Accept", "application/json")

	return &Client{creds: creds, http: client, log: log}
}

// Configured reports whether an API key is currently available.
func (c *Client) Configured() bool {
	return c.creds.APIKey() != ""
}

// FetchAllJobs returns the complete, deduplicated jobs collection in
// first-seen order. Pages are requested sequentially starting at 1 (the API
// is 1-indexed; page 0 aliases page 1). A failed page request aborts the
// whole operation: an incomplete jobs list would silently undercount
// everything downstream, which is worse than an explicit failure.
func (c *Client) FetchAllJobs(ctx context.Context) ([]Job, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	pager := newJobsPager()
	state := pageFetching
	for page := 1; state == pageFetching; page++ {
		batch, err := c.fetchJobsPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("jobs page %d: %w", page, err)
		}
		state = pager.Observe(batch)
	}

	if state != pageExhausted {
		c.log.WithFields(logger.Fields{
			"stop_state": state.String(),
			"jobs":       len(pager.Jobs()),
		}).Warn("Jobs pagination stopped early")
	}

	return pager.Jobs(), nil
}

func (c *Client) fetchJobsPage(ctx context.Context, page int) ([]Job, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey()).
		SetQueryParams(map[string]string{
			"page": strconv.Itoa(page),
			"take": strconv.Itoa(jobsPageSize),
		}).
		Get(c.creds.BaseURL() + "/v1/Jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to call jobs endpoint: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("jobs endpoint returned status %d", resp.StatusCode())
	}
	return decodeJobs(resp.Body())
}

// FetchSubmissions returns all submissions for one job within the window.
// Unlike the jobs endpoint, a short batch is a reliable end-of-data signal
// here; the X-Paging-TotalRecordCount header is honoured when present.
func (c *Client) FetchSubmissions(ctx context.Context, jobID string, window domain.Window) ([]Submission, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var results []Submission
	total := -1 // unknown until the first response

	for page := 1; ; page++ {
		batch, headerTotal, err := c.fetchSubmissionsPage(ctx, jobID, window, page)
		if err != nil {
			return nil, fmt.Errorf("submissions page %d for job %s: %w", page, jobID, err)
		}
		results = append(results, batch...)

		if total < 0 {
			total = parseTotalHeader(headerTotal, len(batch))
		}
		if len(batch) == 0 || len(batch) < submissionsPageSize || len(results) >= total {
			break
		}
	}

	return results, nil
}

func (c *Client) fetchSubmissionsPage(ctx context.Context, jobID string, window domain.Window, page int) ([]Submission, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey()).
		SetQueryParams(map[string]string{
			"fromDate": window.DayStart(),
			"toDate":   window.DayEnd(),
			"take":     strconv.Itoa(submissionsPageSize),
			"page":     strconv.Itoa(page),
		}).
		Get(c.creds.BaseURL() + "/v1/Jobs/" + jobID + "/Submissions")
	if err != nil {
		return nil, "", fmt.Errorf("failed to call submissions endpoint: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("submissions endpoint returned status %d", resp.StatusCode())
	}
	subs, err := decodeSubmissions(resp.Body())
	if err != nil {
		return nil, "", err
	}
	return subs, resp.Header().Get(totalCountHeader), nil
}

// CountSubmissions returns the number of submissions for one job within the
// window. This is the lighter call the aggregation path uses.
func (c *Client) CountSubmissions(ctx context.Context, jobID string, window domain.Window) (int, error) {
	subs, err := c.FetchSubmissions(ctx, jobID, window)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}
