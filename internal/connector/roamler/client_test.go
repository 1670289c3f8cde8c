package roamler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/larsvdm/fieldtrack/internal/domain"
)

func testWindow() domain.Window {
	return domain.Window{From: "2026-03-09", To: "2026-06-30"}
}

func newTestClient(url string) *Client {
	return NewClient(StaticCredentials{URL: url, Key: "test-key"}, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(StaticCredentials{URL: "http://example.invalid", Key: ""}, nil)

	if c.Configured() {
		t.Fatal("expected Configured() to be false with empty key")
	}
	if _, err := c.FetchAllJobs(context.Background()); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.FetchSubmissions(context.Background(), "1", testWindow()); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClient_FetchAllJobs_DedupAndStop(t *testing.T) {
	pages := map[string][]map[string]interface{}{
		"1": {{"id": "10", "workingTitle": "FAEM - DE"}, {"id": "11", "workingTitle": "Airfryer - FR"}},
		"2": {{"id": "12", "workingTitle": "Blender - NL"}},
		// The server then re-serves page 1 regardless of the page parameter.
	}
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/v1/Jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if key := r.Header.Get("X-Roamler-Api-Key"); key != "test-key" {
			t.Errorf("missing api key header, got %q", key)
		}
		batch, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			batch = pages["1"]
		}
		writeJSON(t, w, batch)
	}))
	defer srv.Close()

	jobs, err := newTestClient(srv.URL).FetchAllJobs(context.Background())
	if err != nil {
		t.Fatalf("FetchAllJobs: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 deduplicated jobs, got %d", len(jobs))
	}
	if jobs[0].ID != "10" || jobs[1].ID != "11" || jobs[2].ID != "12" {
		t.Errorf("unexpected job order: %+v", jobs)
	}
	// Pages 1, 2, then the duplicate page 3; no runaway loop.
	if requests != 3 {
		t.Errorf("expected 3 requests, got %d", requests)
	}
}

func TestClient_FetchAllJobs_EnvelopeAndNumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"Jobs": [{"Id": 42, "workingTitle": "RVC - UK"}]}`)
			return
		}
		fmt.Fprint(w, `{"Jobs": []}`)
	}))
	defer srv.Close()

	jobs, err := newTestClient(srv.URL).FetchAllJobs(context.Background())
	if err != nil {
		t.Fatalf("FetchAllJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].ID != "42" {
		t.Errorf("numeric id not normalised, got %q", jobs[0].ID)
	}
}

func TestClient_FetchAllJobs_ErrorAborts(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			writeJSON(t, w, []map[string]interface{}{{"id": "1", "workingTitle": "FAEM - DE"}})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchAllJobs(context.Background())
	if err == nil {
		t.Fatal("expected error when a page request fails")
	}
}

func TestClient_FetchSubmissions_PagesByTotalHeader(t *testing.T) {
	// 1200 submissions: pages of 500, 500, 200.
	const total = 1200
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/Jobs/77/Submissions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("take"); got != "500" {
			t.Errorf("take = %q, want 500", got)
		}
		if got := r.URL.Query().Get("fromDate"); got != "2026-03-09T00:00:00" {
			t.Errorf("fromDate = %q", got)
		}
		if got := r.URL.Query().Get("toDate"); got != "2026-06-30T23:59:59" {
			t.Errorf("toDate = %q", got)
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := (page - 1) * submissionsPageSize
		size := submissionsPageSize
		if start+size > total {
			size = total - start
		}
		batch := make([]map[string]interface{}, 0, size)
		for i := 0; i < size; i++ {
			batch = append(batch, map[string]interface{}{"id": strconv.Itoa(start + i)})
		}
		w.Header().Set("X-Paging-TotalRecordCount", strconv.Itoa(total))
		writeJSON(t, w, batch)
	}))
	defer srv.Close()

	subs, err := newTestClient(srv.URL).FetchSubmissions(context.Background(), "77", testWindow())
	if err != nil {
		t.Fatalf("FetchSubmissions: %v", err)
	}
	if len(subs) != total {
		t.Fatalf("expected %d submissions, got %d", total, len(subs))
	}
}

func TestClient_FetchSubmissions_ShortBatchStops(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// No total header; a short batch is the only end signal.
		writeJSON(t, w, []map[string]interface{}{{"id": "1"}, {"id": "2"}})
	}))
	defer srv.Close()

	subs, err := newTestClient(srv.URL).FetchSubmissions(context.Background(), "5", testWindow())
	if err != nil {
		t.Fatalf("FetchSubmissions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if requests != 1 {
		t.Errorf("expected a single request for a short batch, got %d", requests)
	}
}

func TestClient_CountSubmissions_ErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).CountSubmissions(context.Background(), "9", testWindow()); err == nil {
		t.Fatal("expected error from failing submissions endpoint")
	}
}

func TestParseTotalHeader(t *testing.T) {
	cases := []struct {
		value    string
		fallback int
		want     int
	}{
		{"1200", 0, 1200},
		{" 42 ", 0, 42},
		{"", 7, 7},
		{"garbage", 7, 7},
		{"-3", 7, 7},
	}
	for _, tc := range cases {
		if got := parseTotalHeader(tc.value, tc.fallback); got != tc.want {
			t.Errorf("parseTotalHeader(%q, %d) = %d, want %d", tc.value, tc.fallback, got, tc.want)
		}
	}
}
