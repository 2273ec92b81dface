package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-crm/models"
)

func TestBuildLeadsWorkbook(t *testing.T) {
	leads := []models.Lead{
		{
			Name:      "Asha Patel",
			Phone:     "+919876543210",
			Email:     "asha@example.com",
			City:      "Mumbai",
			Value:     4500000,
			Source:    models.SourceManual,
			Stage:     models.StageQualified,
			Priority:  models.PriorityHot,
			CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	f, err := BuildLeadsWorkbook(leads)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Leads", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", name)

	value, err := f.GetCellValue("Leads", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Asha Patel", value)

	stage, err := f.GetCellValue("Leads", "G2")
	require.NoError(t, err)
	assert.Equal(t, "qualified", stage)
}

func TestLeadsWorkbookRoundTrip(t *testing.T) {
	leads := []models.Lead{
		{Name: "Asha Patel", Phone: "+919876543210", Email: "asha@example.com", City: "Mumbai", Value: 100000},
		{Name: "Rohan Mehta", Phone: "9123456780", City: "Pune"},
	}

	f, err := BuildLeadsWorkbook(leads)
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	parsed, skipped, err := ParseLeadsWorkbook(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, parsed, 2)

	assert.Equal(t, "Asha Patel", parsed[0].Name)
	assert.Equal(t, "+919876543210", parsed[0].Phone)
	assert.Equal(t, "Mumbai", parsed[0].City)
	// uploaded files always come back as imports
	assert.Equal(t, models.SourceImport, parsed[0].Source)
	assert.Equal(t, models.SourceImport, parsed[1].Source)
}

func TestBuildReportWorkbook(t *testing.T) {
	stats := []ReportDailyStat{
		{Date: "2026-03-14", LeadsCount: 3, CallsCount: 12, WonCount: 1},
		{Date: "2026-03-15", LeadsCount: 5, CallsCount: 9, WonCount: 0},
	}

	f, err := BuildReportWorkbook(stats)
	require.NoError(t, err)
	defer f.Close()

	date, err := f.GetCellValue("Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", date)

	calls, err := f.GetCellValue("Report", "C3")
	require.NoError(t, err)
	assert.Equal(t, "9", calls)
}

func TestParseLeadsWorkbookInvalidFile(t *testing.T) {
	_, _, err := ParseLeadsWorkbook(bytes.NewReader([]byte("not an xlsx file")))
	assert.Error(t, err)
}
