package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/larsvdm/fieldtrack/internal/domain"
)

func TestWorkbookBytes(t *testing.T) {
	report := &domain.Report{
		Window: testWindow(),
		Rows: []domain.ProgressRow{
			{Market: "DE", MarketName: "Germany", Category: "Airfryer", Platform: "roamler", Completed: 30, Target: 50, Pct: 60.0, Status: domain.StatusOnTrack},
			{Market: "FR", MarketName: "France", Category: "FAEM", Platform: "roamler", Completed: 100, Target: 100, Pct: 100.0, Status: domain.StatusComplete},
		},
		GeneratedAt: time.Now().UTC(),
	}

	data, err := WorkbookBytes(report)
	if err != nil {
		t.Fatalf("WorkbookBytes: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header, two data rows, blank spacer, totals.
	if len(rows) < 5 {
		t.Fatalf("expected at least 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "Market" || rows[0][7] != "Status" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "DE" || rows[1][7] != "on_track" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}

	totals := rows[len(rows)-1]
	if totals[0] != "Total" || totals[4] != "130" || totals[5] != "150" {
		t.Errorf("unexpected totals row: %v", totals)
	}
}
