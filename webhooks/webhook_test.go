package webhooks

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-crm/config"
	"estate-crm/models"
)

func testApp() *fiber.App {
	cfg := &config.Config{VerifyToken: "secret-token"}
	app := fiber.New()
	app.Get("/api/integrations/:type/webhook", verifyWebhook(cfg))
	return app
}

func TestVerifyWebhookEchoesChallenge(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("GET",
		"/api/integrations/meta_ads/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(body))
}

func TestVerifyWebhookRejectsBadToken(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("GET",
		"/api/integrations/meta_ads/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVerifyWebhookRejectsMissingMode(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("GET",
		"/api/integrations/whatsapp/webhook?hub.verify_token=secret-token&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMapLeadgenData(t *testing.T) {
	value := MetaLeadgenData{
		FormID:    "form-1",
		LeadgenID: "lg-99",
		FieldData: []MetaFieldData{
			{Name: "full_name", Values: []string{"Asha Patel"}},
			{Name: "phone_number", Values: []string{"+919876543210"}},
			{Name: "email", Values: []string{"asha@example.com"}},
			{Name: "city", Values: []string{"Mumbai"}},
		},
	}

	lead, err := mapLeadgenData(value)
	require.NoError(t, err)
	assert.Equal(t, "Asha Patel", lead.Name)
	assert.Equal(t, "+919876543210", lead.Phone)
	assert.Equal(t, "asha@example.com", lead.Email)
	assert.Equal(t, "Mumbai", lead.City)
	assert.Equal(t, models.SourceMetaAds, lead.Source)
	assert.Equal(t, "form-1", lead.ImportBatchID)
}

func TestMapLeadgenDataMissingPhone(t *testing.T) {
	value := MetaLeadgenData{
		LeadgenID: "lg-100",
		FieldData: []MetaFieldData{
			{Name: "full_name", Values: []string{"No Phone"}},
		},
	}

	_, err := mapLeadgenData(value)
	assert.Error(t, err)
}

func TestMapLeadgenDataMissingName(t *testing.T) {
	value := MetaLeadgenData{
		LeadgenID: "lg-101",
		FieldData: []MetaFieldData{
			{Name: "phone_number", Values: []string{"9876543210"}},
		},
	}

	lead, err := mapLeadgenData(value)
	require.NoError(t, err)
	assert.Equal(t, "Meta lead lg-101", lead.Name)
}

func TestMapLeadgenDataIgnoresEmptyValues(t *testing.T) {
	value := MetaLeadgenData{
		LeadgenID: "lg-102",
		FieldData: []MetaFieldData{
			{Name: "email", Values: nil},
			{Name: "phone_number", Values: []string{" 9876543210 "}},
		},
	}

	lead, err := mapLeadgenData(value)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", lead.Phone)
	assert.Empty(t, lead.Email)
}
