package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/larsvdm/fieldtrack/internal/domain"
	"github.com/larsvdm/fieldtrack/internal/storage"
)

const exportSheet = "Progress"

// XLSXContentType is the MIME type for workbook downloads and uploads.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildWorkbook renders a report as an XLSX workbook with one progress sheet.
func BuildWorkbook(report *domain.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []interface{}{"Market", "Market Name", "Category", "Platform", "Completed", "Target", "Pct", "Status", "Note"}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := []interface{}{
			row.Market,
			row.MarketName,
			row.Category,
			row.Platform,
			row.Completed,
			row.Target,
			row.Pct,
			string(row.Status),
			row.Note,
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	summary := strconv.Itoa(len(report.Rows) + 3)
	_ = f.SetCellValue(exportSheet, "A"+summary, "Total")
	_ = f.SetCellValue(exportSheet, "E"+summary, report.TotalCompleted())
	_ = f.SetCellValue(exportSheet, "F"+summary, report.TotalTarget())
	_ = f.SetCellValue(exportSheet, "I"+summary, report.Window.From+" to "+report.Window.To)

	return f, nil
}

// WorkbookBytes renders a report to XLSX bytes.
func WorkbookBytes(report *domain.Report) ([]byte, error) {
	f, err := BuildWorkbook(report)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// PublishReport uploads the rendered workbook to object storage under key
// and returns its public URL.
func PublishReport(ctx context.Context, store storage.ObjectStorage, key string, report *domain.Report) (string, error) {
	data, err := WorkbookBytes(report)
	if err != nil {
		return "", err
	}
	if err := store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), XLSXContentType); err != nil {
		return "", fmt.Errorf("failed to publish report: %w", err)
	}
	return store.GetURL(key), nil
}
