package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"estate-crm/models"
	"estate-crm/services"
)

type ConnectIntegrationRequest struct {
	Credentials string                   `json:"credentials"`
	Config      models.IntegrationConfig `json:"config"`
}

// GetIntegrations lists the integration status for every known type
func GetIntegrations(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	integrations, err := services.ListIntegrations(ctx)
	if err != nil {
		slog.Error("Failed to list integrations", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve integrations",
		})
	}

	return c.JSON(fiber.Map{"integrations": integrations})
}

// GetIntegrationDetails retrieves a single integration by type
func GetIntegrationDetails(c *fiber.Ctx) error {
	integrationType := c.Params("type")
	if !models.IsValidIntegrationType(integrationType) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown integration type",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	integration, err := services.GetIntegrationByType(ctx, integrationType)
	if err != nil {
		slog.Error("Failed to get integration", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve integration",
		})
	}
	if integration == nil {
		return c.JSON(fiber.Map{
			"integration": fiber.Map{
				"type":      integrationType,
				"connected": false,
			},
		})
	}

	return c.JSON(fiber.Map{"integration": integration})
}

// ConnectIntegration stores credentials and config for an integration
// type and marks it connected. Admin only.
func ConnectIntegration(c *fiber.Ctx) error {
	integrationType := c.Params("type")
	if !models.IsValidIntegrationType(integrationType) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown integration type",
		})
	}

	var req ConnectIntegrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if integrationType == string(models.IntegrationGoogleSheets) {
		if req.Config.SheetURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "config.sheet_url is required for google_sheets",
			})
		}
		if _, err := services.SheetExportURL(req.Config.SheetURL); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "config.sheet_url is not a valid Google Sheets URL",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	integration, err := services.ConnectIntegration(ctx, integrationType, req.Credentials, req.Config)
	if err != nil {
		slog.Error("Failed to connect integration", "type", integrationType, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to connect integration",
		})
	}

	return c.JSON(fiber.Map{"integration": integration})
}

// DisconnectIntegration clears credentials and marks the integration
// disconnected. Import counters are preserved. Admin only.
func DisconnectIntegration(c *fiber.Ctx) error {
	integrationType := c.Params("type")
	if !models.IsValidIntegrationType(integrationType) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown integration type",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	integration, err := services.DisconnectIntegration(ctx, integrationType)
	if err != nil {
		slog.Error("Failed to disconnect integration", "type", integrationType, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to disconnect integration",
		})
	}
	if integration == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Integration not configured",
		})
	}

	return c.JSON(fiber.Map{"integration": integration})
}

// SyncIntegration triggers an on-demand import. Only google_sheets
// supports manual sync; webhook sources push to us instead.
func SyncIntegration(c *fiber.Ctx) error {
	integrationType := c.Params("type")
	if !models.IsValidIntegrationType(integrationType) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown integration type",
		})
	}
	if integrationType != string(models.IntegrationGoogleSheets) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Manual sync is only supported for google_sheets",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	integration, err := services.GetIntegrationByType(ctx, integrationType)
	if err != nil {
		slog.Error("Failed to get integration", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve integration",
		})
	}
	if integration == nil || !integration.Connected {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Integration is not connected",
		})
	}

	imported, err := services.SyncGoogleSheets(ctx)
	if err != nil {
		slog.Error("Sheets sync failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Sheet sync failed",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Sync finished",
		"imported": imported,
	})
}
