package connector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/larsvdm/fieldtrack/internal/domain"
)

// LoadManualExport reads progress rows from a manually supplied XLSX export.
// Used as a fallback for vendors that have no API access yet. Expected
// columns on the first sheet: market, category, target, completed (header
// row required, order free).
func LoadManualExport(path, platform string) ([]domain.ProgressRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manual export: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("manual export has no sheets: %s", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("manual export %s has no data rows", path)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"market", "category", "target", "completed"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("manual export %s is missing column %q", path, required)
		}
	}

	now := time.Now().UTC()
	out := make([]domain.ProgressRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		market := cell(row, cols["market"])
		category := cell(row, cols["category"])
		if market == "" && category == "" {
			continue
		}
		target := cellInt(row, cols["target"])
		completed := cellInt(row, cols["completed"])
		pct := domain.Completion(completed, target)

		out = append(out, domain.ProgressRow{
			Market:    strings.ToUpper(market),
			Category:  category,
			Platform:  platform + "_manual",
			Completed: completed,
			Target:    target,
			Pct:       pct,
			Status:    domain.StatusFor(pct),
			UpdatedAt: now,
		})
	}

	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt(row []string, i int) int {
	v := cell(row, i)
	if v == "" {
		return 0
	}
	// Excel often renders ints as floats ("42.0")
	if fv, err := strconv.ParseFloat(v, 64); err == nil {
		return int(fv)
	}
	return 0
}
