package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estate-crm/models"
	"estate-crm/services"
)

// setupUnreachableDB points the services layer at an address nothing
// listens on, so every database operation fails fast
func setupUnreachableDB(t *testing.T) {
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100 * time.Millisecond).
		SetConnectTimeout(100 * time.Millisecond)

	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)

	services.InitServices(client, "estate_crm_test")
}

func TestImportLeadsSkipsRowsWhenLookupFails(t *testing.T) {
	setupUnreachableDB(t)

	f, err := services.BuildLeadsWorkbook([]models.Lead{
		{Name: "Asha Patel", Phone: "+919876543210"},
		{Name: "Rohan Mehta", Phone: "9123456780"},
	})
	require.NoError(t, err)
	defer f.Close()

	var workbook bytes.Buffer
	require.NoError(t, f.Write(&workbook))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "leads.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	app := fiber.New()
	app.Post("/api/leads/import", ImportLeads)

	req := httptest.NewRequest("POST", "/api/leads/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, 15000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result struct {
		Imported   int `json:"imported"`
		Duplicates int `json:"duplicates"`
		Skipped    int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(respBody, &result))

	// a failed duplicate lookup must not pass for "no duplicate": the row
	// is skipped, not inserted
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, 2, result.Skipped)
}
