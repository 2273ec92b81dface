package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-crm/models"
)

func TestSheetExportURL(t *testing.T) {
	url, err := SheetExportURL("https://docs.google.com/spreadsheets/d/1AbC_dEf-123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1AbC_dEf-123/export?format=csv", url)

	url, err = SheetExportURL("https://docs.google.com/spreadsheets/d/xyz789/edit?usp=sharing")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/xyz789/export?format=csv", url)

	_, err = SheetExportURL("https://example.com/not-a-sheet")
	assert.Error(t, err)

	_, err = SheetExportURL("")
	assert.Error(t, err)
}

func TestMapSheetRows(t *testing.T) {
	records := [][]string{
		{"Name", "Phone Number", "Email", "City", "Budget"},
		{"Asha Patel", "+91 98765 43210", "asha@example.com", "Mumbai", "4,500,000"},
		{"Rohan Mehta", "9123456780", "", "Pune", ""},
		{"", "9999999999", "", "", ""},          // no name
		{"No Phone", "", "np@example.com", "", ""}, // no phone
	}

	leads, skipped := MapSheetRows(records)
	require.Len(t, leads, 2)
	assert.Equal(t, 2, skipped)

	assert.Equal(t, "Asha Patel", leads[0].Name)
	assert.Equal(t, "+91 98765 43210", leads[0].Phone)
	assert.Equal(t, "asha@example.com", leads[0].Email)
	assert.Equal(t, "Mumbai", leads[0].City)
	assert.Equal(t, 4500000.0, leads[0].Value)
	assert.Equal(t, models.SourceGoogleSheets, leads[0].Source)

	assert.Equal(t, "Rohan Mehta", leads[1].Name)
	assert.Equal(t, 0.0, leads[1].Value)
}

func TestMapSheetRowsHeaderAliases(t *testing.T) {
	records := [][]string{
		{"full_name", "MOBILE", "email address", "location", "deal-value"},
		{"Lena Fernandes", "9000000001", "lena@example.com", "Goa", "250000"},
	}

	leads, skipped := MapSheetRows(records)
	require.Len(t, leads, 1)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, "Lena Fernandes", leads[0].Name)
	assert.Equal(t, "lena@example.com", leads[0].Email)
	assert.Equal(t, "Goa", leads[0].City)
	assert.Equal(t, 250000.0, leads[0].Value)
}

func TestMapSheetRowsEmptyAndHeaderOnly(t *testing.T) {
	leads, skipped := MapSheetRows(nil)
	assert.Nil(t, leads)
	assert.Equal(t, 0, skipped)

	leads, skipped = MapSheetRows([][]string{{"name", "phone"}})
	assert.Nil(t, leads)
	assert.Equal(t, 0, skipped)
}

func TestMapSheetRowsRaggedRows(t *testing.T) {
	// rows shorter than the header must not panic
	records := [][]string{
		{"name", "phone", "email", "city"},
		{"Short Row", "9111111111"},
	}

	leads, skipped := MapSheetRows(records)
	require.Len(t, leads, 1)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, "Short Row", leads[0].Name)
	assert.Empty(t, leads[0].Email)
}
