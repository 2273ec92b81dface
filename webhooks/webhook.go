package webhooks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"estate-crm/config"
	"estate-crm/models"
	"estate-crm/services"
)

// RegisterRoutes mounts the inbound webhook endpoints for external
// lead sources
func RegisterRoutes(app *fiber.App, cfg *config.Config) {
	webhook := app.Group("/api/integrations/:type/webhook")

	// Meta-style verification handshake
	webhook.Get("/", verifyWebhook(cfg))

	webhook.Post("/", handleWebhookEvent())
}

// verifyWebhook answers the hub.challenge handshake used by Meta for
// both the leadgen and WhatsApp subscriptions
func verifyWebhook(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "subscribe" && token == cfg.VerifyToken {
			slog.Info("Webhook verified successfully", "type", c.Params("type"))
			return c.SendString(challenge)
		}

		slog.Warn("Webhook verification failed", "type", c.Params("type"), "mode", mode)
		return c.SendStatus(fiber.StatusForbidden)
	}
}

// handleWebhookEvent routes an inbound event to the per-source handler
func handleWebhookEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		integrationType := c.Params("type")

		switch models.IntegrationType(integrationType) {
		case models.IntegrationMetaAds, models.IntegrationWhatsApp:
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Unknown webhook source",
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		integration, err := services.GetIntegrationByType(ctx, integrationType)
		if err != nil {
			slog.Error("Failed to load integration", "type", integrationType, "error", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if integration == nil || !integration.Connected {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Integration is not connected",
			})
		}

		switch models.IntegrationType(integrationType) {
		case models.IntegrationMetaAds:
			return handleMetaAdsEvent(ctx, c)
		default:
			return handleWhatsAppEvent(ctx, c)
		}
	}
}

// handleMetaAdsEvent turns leadgen form submissions into leads. The
// whole payload is validated before anything is written: one entry
// with a missing phone rejects the batch.
func handleMetaAdsEvent(ctx context.Context, c *fiber.Ctx) error {
	var event MetaWebhookEvent
	if err := c.BodyParser(&event); err != nil {
		slog.Error("Failed to parse meta_ads webhook body", "error", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}

	leads := make([]models.Lead, 0, len(event.Entry))
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			if change.Field != "leadgen" {
				continue
			}

			lead, err := mapLeadgenData(change.Value)
			if err != nil {
				slog.Warn("Rejected meta_ads payload", "leadgenID", change.Value.LeadgenID, "error", err)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			leads = append(leads, *lead)
		}
	}

	created := int64(0)
	for i := range leads {
		lead := &leads[i]

		existing, err := services.GetLeadByNormalizedPhone(ctx, lead.Phone)
		if err != nil {
			slog.Error("Duplicate lookup failed, skipping submission", "phone", lead.Phone, "error", err)
			continue
		}
		if existing != nil {
			note := fmt.Sprintf("Duplicate meta_ads submission (form %s)", lead.ImportBatchID)
			if _, err := services.AppendLeadNote(ctx, existing.ID.Hex(), note); err != nil {
				slog.Error("Failed to note duplicate submission", "leadID", existing.ID.Hex(), "error", err)
			}
			continue
		}

		if err := services.CreateLead(ctx, lead); err != nil {
			slog.Error("Failed to create lead from meta_ads", "name", lead.Name, "error", err)
			continue
		}
		created++

		services.LogActivity(ctx, &models.Activity{
			LeadID:      lead.ID.Hex(),
			Type:        models.ActivityLeadCreated,
			Description: fmt.Sprintf("Lead %q received from Meta lead form", lead.Name),
		})

		if _, err := services.AutoAssignLead(ctx, lead); err != nil {
			slog.Error("Auto-assignment failed", "leadID", lead.ID.Hex(), "error", err)
		}

		services.GetWebSocketManager().Broadcast(services.BroadcastMessage{
			Type: "lead_created",
			Data: lead,
		})
	}

	services.RecordIntegrationSync(ctx, string(models.IntegrationMetaAds), created, nil)

	return c.JSON(fiber.Map{
		"message": "EVENT_RECEIVED",
		"created": created,
	})
}

// mapLeadgenData extracts a lead from the inline form answers
func mapLeadgenData(value MetaLeadgenData) (*models.Lead, error) {
	lead := &models.Lead{
		Source:        models.SourceMetaAds,
		ImportBatchID: value.FormID,
	}

	for _, field := range value.FieldData {
		if len(field.Values) == 0 {
			continue
		}
		answer := strings.TrimSpace(field.Values[0])

		switch strings.ToLower(field.Name) {
		case "full_name", "name":
			lead.Name = answer
		case "phone_number", "phone":
			lead.Phone = answer
		case "email":
			lead.Email = answer
		case "city":
			lead.City = answer
		}
	}

	if lead.Phone == "" {
		return nil, fmt.Errorf("leadgen submission has no phone_number field")
	}
	if lead.Name == "" {
		lead.Name = "Meta lead " + value.LeadgenID
	}

	return lead, nil
}

// handleWhatsAppEvent turns inbound WhatsApp messages into leads, or
// appends the message to an existing lead with the same phone
func handleWhatsAppEvent(ctx context.Context, c *fiber.Ctx) error {
	var event WhatsAppWebhookEvent
	if err := c.BodyParser(&event); err != nil {
		slog.Error("Failed to parse whatsapp webhook body", "error", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}

	created := int64(0)
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}

			names := make(map[string]string, len(change.Value.Contacts))
			for _, contact := range change.Value.Contacts {
				names[contact.WaID] = contact.Profile.Name
			}

			for _, msg := range change.Value.Messages {
				if msg.From == "" {
					continue
				}

				body := strings.TrimSpace(msg.Text.Body)

				existing, err := services.GetLeadByNormalizedPhone(ctx, msg.From)
				if err != nil {
					slog.Error("Duplicate lookup failed, skipping message", "from", msg.From, "error", err)
					continue
				}
				if existing != nil {
					if body != "" {
						note := "WhatsApp: " + body
						if _, err := services.AppendLeadNote(ctx, existing.ID.Hex(), note); err != nil {
							slog.Error("Failed to append WhatsApp note", "leadID", existing.ID.Hex(), "error", err)
						}
					}
					continue
				}

				name := names[msg.From]
				if name == "" {
					name = "WhatsApp " + msg.From
				}

				lead := &models.Lead{
					Name:   name,
					Phone:  msg.From,
					Source: models.SourceWhatsApp,
				}
				if body != "" {
					lead.Notes = "WhatsApp: " + body
				}

				if err := services.CreateLead(ctx, lead); err != nil {
					slog.Error("Failed to create lead from whatsapp", "from", msg.From, "error", err)
					continue
				}
				created++

				services.LogActivity(ctx, &models.Activity{
					LeadID:      lead.ID.Hex(),
					Type:        models.ActivityLeadCreated,
					Description: fmt.Sprintf("Lead %q received from WhatsApp", lead.Name),
				})

				if _, err := services.AutoAssignLead(ctx, lead); err != nil {
					slog.Error("Auto-assignment failed", "leadID", lead.ID.Hex(), "error", err)
				}

				services.GetWebSocketManager().Broadcast(services.BroadcastMessage{
					Type: "lead_created",
					Data: lead,
				})
			}
		}
	}

	services.RecordIntegrationSync(ctx, string(models.IntegrationWhatsApp), created, nil)

	return c.JSON(fiber.Map{
		"message": "EVENT_RECEIVED",
		"created": created,
	})
}
