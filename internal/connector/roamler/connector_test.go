package roamler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/larsvdm/fieldtrack/internal/domain"
)

// progressFixture serves a fixed jobs list and per-job submission counts,
// with selected job ids returning an error on their submissions endpoint.
type progressFixture struct {
	jobs    []map[string]interface{}
	counts  map[string]int
	failing map[string]bool
}

func (f *progressFixture) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/Jobs":
			if r.URL.Query().Get("page") == "1" {
				writeJSON(t, w, f.jobs)
			} else {
				writeJSON(t, w, []map[string]interface{}{})
			}
		case strings.HasPrefix(r.URL.Path, "/v1/Jobs/") && strings.HasSuffix(r.URL.Path, "/Submissions"):
			jobID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/Jobs/"), "/Submissions")
			if f.failing[jobID] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			batch := make([]map[string]interface{}, f.counts[jobID])
			for i := range batch {
				batch[i] = map[string]interface{}{"id": jobID + "-" + strconv.Itoa(i)}
			}
			writeJSON(t, w, batch)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestConnector_Progress_PartialFailureIsolated(t *testing.T) {
	fixture := &progressFixture{
		jobs: []map[string]interface{}{
			{"id": "1", "workingTitle": "Versuni - Airfryer - DE"},
			{"id": "2", "workingTitle": "Versuni - Airfryer - DE"},
			{"id": "3", "workingTitle": "Versuni - FAEM - FR"},
			{"id": "4", "workingTitle": "Versuni - FAEM - FR"},
			{"id": "5", "workingTitle": "Versuni - Blender - NL"},
			{"id": "6", "workingTitle": "Internal QA check"}, // no market
		},
		counts:  map[string]int{"1": 12, "2": 8, "3": 30, "4": 5, "5": 7},
		failing: map[string]bool{"3": true},
	}
	srv := httptest.NewServer(fixture.handler(t))
	defer srv.Close()

	conn := NewConnector(newTestClient(srv.URL), nil, &Config{Workers: 4}, nil)
	rows, diag, err := conn.Progress(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	wantRows := map[string]int{
		"DE/Airfryer": 20, // jobs 1+2
		"FR/FAEM":     5,  // job 3 failed, only job 4 counts
		"NL/Blender":  7,
	}
	if len(rows) != len(wantRows) {
		t.Fatalf("expected %d rows, got %d: %+v", len(wantRows), len(rows), rows)
	}
	for _, row := range rows {
		key := row.Market + "/" + row.Category
		want, ok := wantRows[key]
		if !ok {
			t.Errorf("unexpected row %s", key)
			continue
		}
		if row.Completed != want {
			t.Errorf("row %s completed = %d, want %d", key, row.Completed, want)
		}
		if row.Platform != Platform {
			t.Errorf("row %s platform = %q", key, row.Platform)
		}
	}

	if diag.TotalJobs != 6 {
		t.Errorf("TotalJobs = %d, want 6", diag.TotalJobs)
	}
	if diag.SkippedUnknownMarket != 1 {
		t.Errorf("SkippedUnknownMarket = %d, want 1", diag.SkippedUnknownMarket)
	}
	if len(diag.UnknownTitles) != 1 || diag.UnknownTitles[0] != "Internal QA check" {
		t.Errorf("UnknownTitles = %v", diag.UnknownTitles)
	}
	if len(diag.FailedJobs) != 1 {
		t.Fatalf("FailedJobs = %+v, want exactly one", diag.FailedJobs)
	}
	failed := diag.FailedJobs[0]
	if failed.JobID != "3" || failed.Market != "FR" || failed.Category != "FAEM" {
		t.Errorf("unexpected failed job record: %+v", failed)
	}
	if got := strings.Join(diag.MarketsFound, ","); got != "DE,FR,NL" {
		t.Errorf("MarketsFound = %q, want DE,FR,NL", got)
	}
}

func TestConnector_Progress_RowsSorted(t *testing.T) {
	fixture := &progressFixture{
		jobs: []map[string]interface{}{
			{"id": "1", "workingTitle": "Versuni - RVC - NL"},
			{"id": "2", "workingTitle": "Versuni - Airfryer - NL"},
			{"id": "3", "workingTitle": "Versuni - FAEM - DE"},
		},
		counts: map[string]int{"1": 1, "2": 2, "3": 3},
	}
	srv := httptest.NewServer(fixture.handler(t))
	defer srv.Close()

	conn := NewConnector(newTestClient(srv.URL), nil, nil, nil)

	// Worker scheduling must not leak into row order.
	var first []string
	for run := 0; run < 3; run++ {
		rows, _, err := conn.Progress(context.Background(), testWindow())
		if err != nil {
			t.Fatalf("Progress: %v", err)
		}
		keys := make([]string, len(rows))
		for i, row := range rows {
			keys[i] = row.Market + "/" + row.Category
		}
		if first == nil {
			first = keys
			want := []string{"DE/FAEM", "NL/Airfryer", "NL/RVC"}
			for i := range want {
				if keys[i] != want[i] {
					t.Fatalf("rows not sorted: %v", keys)
				}
			}
			continue
		}
		for i := range first {
			if keys[i] != first[i] {
				t.Fatalf("row order changed between runs: %v vs %v", first, keys)
			}
		}
	}
}

func TestConnector_Progress_Unconfigured(t *testing.T) {
	conn := NewConnector(NewClient(StaticCredentials{URL: "http://example.invalid"}, nil), nil, nil, nil)

	rows, diag, err := conn.Progress(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("expected placeholder rows, got error %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 5 markets x 2 categories placeholder rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Note == "" {
			t.Errorf("placeholder row %s/%s has no note", row.Market, row.Category)
		}
		if row.Status != domain.StatusPending {
			t.Errorf("placeholder row status = %s", row.Status)
		}
	}
	if diag.Platform != Platform {
		t.Errorf("diag platform = %q", diag.Platform)
	}
}

func TestConnector_Progress_JobsFetchErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	conn := NewConnector(newTestClient(srv.URL), nil, nil, nil)
	if _, _, err := conn.Progress(context.Background(), testWindow()); err == nil {
		t.Fatal("expected error when the jobs listing itself fails")
	}
}

func TestConnector_DebugJobs(t *testing.T) {
	fixture := &progressFixture{
		jobs: []map[string]interface{}{
			{"id": "1", "workingTitle": "Versuni - Airfryer - DE"},
			{"id": "2", "workingTitle": "Mystery visit"},
			{"id": "3", "workingTitle": "Versuni - FAEM - FR"},
		},
		counts:  map[string]int{"1": 4},
		failing: map[string]bool{"3": true},
	}
	srv := httptest.NewServer(fixture.handler(t))
	defer srv.Close()

	conn := NewConnector(newTestClient(srv.URL), nil, nil, nil)
	rows, diag, err := conn.DebugJobs(context.Background(), testWindow(), true)
	if err != nil {
		t.Fatalf("DebugJobs: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Submissions != 4 {
		t.Errorf("row 0 submissions = %d, want 4", rows[0].Submissions)
	}
	if rows[1].Submissions != -1 {
		t.Errorf("unknown-market row submissions = %d, want -1", rows[1].Submissions)
	}
	if rows[2].Submissions != -2 || rows[2].Error == "" {
		t.Errorf("failing row = %+v, want submissions -2 with error", rows[2])
	}
	if diag.SkippedUnknownMarket != 1 {
		t.Errorf("SkippedUnknownMarket = %d, want 1", diag.SkippedUnknownMarket)
	}
}
