package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"estate-crm/models"
)

var leadExportHeaders = []string{"Name", "Phone", "Email", "City", "Value", "Source", "Stage", "Priority", "Created At"}

// BuildLeadsWorkbook renders leads into an XLSX workbook
func BuildLeadsWorkbook(leads []models.Lead) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Leads"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range leadExportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, lead := range leads {
		values := []interface{}{
			lead.Name,
			lead.Phone,
			lead.Email,
			lead.City,
			lead.Value,
			string(lead.Source),
			string(lead.Stage),
			string(lead.Priority),
			lead.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// BuildReportWorkbook renders daily report buckets into an XLSX workbook
func BuildReportWorkbook(stats []ReportDailyStat) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Leads", "Calls", "Won"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, s := range stats {
		values := []interface{}{s.Date, s.LeadsCount, s.CallsCount, s.WonCount}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// ParseLeadsWorkbook reads leads from an uploaded XLSX file. The first row
// is the header; column mapping matches the Google Sheets importer.
// Returns the parsed leads and the number of rows skipped.
func ParseLeadsWorkbook(r io.Reader) ([]models.Lead, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, 0, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	leads, skipped := MapSheetRows(rows)
	for i := range leads {
		leads[i].Source = models.SourceImport
	}

	return leads, skipped, nil
}
