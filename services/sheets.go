package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"estate-crm/models"
)

var sheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9\-_]+)`)

// SheetExportURL converts a Google Sheets edit/share URL into its CSV
// export endpoint
func SheetExportURL(sheetURL string) (string, error) {
	match := sheetIDPattern.FindStringSubmatch(sheetURL)
	if match == nil {
		return "", fmt.Errorf("not a Google Sheets URL: %s", sheetURL)
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", match[1]), nil
}

// FetchSheetRows downloads and parses the sheet's CSV export
func FetchSheetRows(ctx context.Context, sheetURL string) ([][]string, error) {
	exportURL, err := SheetExportURL(sheetURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", exportURL, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Error("Sheet fetch failed", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("sheet fetch failed: %s", resp.Status)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// MapSheetRows maps CSV records (first row is the header) onto leads.
// Rows without a name or phone are skipped and counted.
func MapSheetRows(records [][]string) ([]models.Lead, int) {
	if len(records) < 2 {
		return nil, 0
	}

	cols := make(map[string]int)
	for i, h := range records[0] {
		cols[normalizeHeader(h)] = i
	}

	field := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := cols[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	var leads []models.Lead
	skipped := 0
	for _, row := range records[1:] {
		name := field(row, "name", "fullname", "leadname")
		phone := field(row, "phone", "phonenumber", "mobile", "contact")
		if name == "" || phone == "" {
			skipped++
			continue
		}

		lead := models.Lead{
			Name:   name,
			Phone:  phone,
			Email:  field(row, "email", "emailaddress"),
			City:   field(row, "city", "location"),
			Source: models.SourceGoogleSheets,
		}
		if value := field(row, "value", "budget", "dealvalue"); value != "" {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64); err == nil {
				lead.Value = v
			}
		}
		leads = append(leads, lead)
	}

	return leads, skipped
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' || r == '-' {
			return -1
		}
		return r
	}, h)
}

// SyncGoogleSheets fetches the connected sheet and imports rows whose
// phone number is not already known. Returns the number of leads created.
func SyncGoogleSheets(ctx context.Context) (int64, error) {
	integration, err := GetIntegrationByType(ctx, string(models.IntegrationGoogleSheets))
	if err != nil {
		return 0, err
	}
	if integration == nil || !integration.Connected {
		return 0, fmt.Errorf("google_sheets integration is not connected")
	}
	if integration.Config.SheetURL == "" {
		return 0, fmt.Errorf("google_sheets integration has no sheet URL configured")
	}

	records, err := FetchSheetRows(ctx, integration.Config.SheetURL)
	if err != nil {
		RecordIntegrationSync(ctx, string(models.IntegrationGoogleSheets), 0, err)
		return 0, err
	}

	leads, skipped := MapSheetRows(records)

	var imported int64
	for i := range leads {
		lead := &leads[i]

		existing, err := GetLeadByNormalizedPhone(ctx, lead.Phone)
		if err != nil {
			slog.Error("Sheet import lookup failed", "phone", lead.Phone, "error", err)
			continue
		}
		if existing != nil {
			continue
		}

		if err := CreateLead(ctx, lead); err != nil {
			slog.Error("Sheet import insert failed", "name", lead.Name, "error", err)
			continue
		}
		imported++

		AutoAssignLead(ctx, lead)

		LogActivity(ctx, &models.Activity{
			LeadID:      lead.ID.Hex(),
			Type:        models.ActivityLeadImported,
			Description: fmt.Sprintf("Lead %q imported from Google Sheets", lead.Name),
		})

		GetWebSocketManager().Broadcast(BroadcastMessage{
			Type: "lead_created",
			Data: lead,
		})
	}

	RecordIntegrationSync(ctx, string(models.IntegrationGoogleSheets), imported, nil)

	slog.Info("Google Sheets sync finished",
		"rows", len(records)-1,
		"imported", imported,
		"skipped", skipped)

	return imported, nil
}
