package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"estate-crm/models"
	"estate-crm/services"
)

type CreateFollowUpRequest struct {
	LeadID       string    `json:"leadId" validate:"required"`
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
	Reason       string    `json:"reason" validate:"omitempty,oneof=initial_contact negotiation document_collection site_visit payment_discussion other"`
	Type         string    `json:"type" validate:"omitempty,oneof=call email sms whatsapp"`
	Notes        string    `json:"notes"`
}

// GetFollowUps lists follow-ups, optionally scoped to a lead or status
func GetFollowUps(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	followUps, totalCount, err := services.ListFollowUps(ctx, c.Query("lead_id"), c.Query("status"), limit, skip)
	if err != nil {
		slog.Error("Failed to list follow-ups", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve follow-ups",
		})
	}

	return c.JSON(fiber.Map{
		"followups": followUps,
		"pagination": fiber.Map{
			"limit": limit,
			"skip":  skip,
			"total": totalCount,
		},
	})
}

// GetFollowUpDetails retrieves a single follow-up
func GetFollowUpDetails(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	followUp, err := services.GetFollowUp(ctx, c.Params("followUpID"))
	if err != nil {
		slog.Error("Failed to get follow-up", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve follow-up",
		})
	}
	if followUp == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Follow-up not found",
		})
	}

	return c.JSON(fiber.Map{"followup": followUp})
}

// CreateFollowUp schedules a follow-up against an existing lead.
// An unknown leadId yields 404 and nothing is written.
func CreateFollowUp(c *fiber.Ctx) error {
	var req CreateFollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: %v", err),
		})
	}

	followUp := &models.FollowUp{
		LeadID:       req.LeadID,
		ScheduledFor: req.ScheduledFor,
		Reason:       models.FollowUpReason(req.Reason),
		Type:         models.FollowUpType(req.Type),
		Notes:        req.Notes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	actor, _ := c.Locals("caller_id").(string)
	created, err := services.CreateFollowUp(ctx, followUp, actor)
	if err != nil {
		slog.Error("Failed to create follow-up", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create follow-up",
		})
	}
	if created == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"followup": created})
}

// UpdateFollowUp applies a partial update to a pending follow-up
func UpdateFollowUp(c *fiber.Ctx) error {
	var req struct {
		ScheduledFor *time.Time `json:"scheduled_for"`
		Reason       *string    `json:"reason"`
		Type         *string    `json:"type"`
		Notes        *string    `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	fields := bson.M{}
	if req.ScheduledFor != nil {
		fields["scheduled_for"] = *req.ScheduledFor
		// rescheduling a missed follow-up puts it back in play
		fields["status"] = models.FollowUpPending
		fields["reminder_sent"] = false
	}
	if req.Reason != nil {
		fields["reason"] = *req.Reason
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	followUp, err := services.UpdateFollowUp(ctx, c.Params("followUpID"), fields)
	if err != nil {
		slog.Error("Failed to update follow-up", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update follow-up",
		})
	}
	if followUp == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Follow-up not found",
		})
	}

	return c.JSON(fiber.Map{"followup": followUp})
}

// CompleteFollowUp marks a follow-up completed. Completing an already
// completed follow-up is a no-op that returns the current document.
func CompleteFollowUp(c *fiber.Ctx) error {
	var req struct {
		Outcome string `json:"outcome"`
		Notes   string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	actor, _ := c.Locals("caller_id").(string)
	followUp, err := services.CompleteFollowUp(ctx, c.Params("followUpID"), req.Outcome, req.Notes, actor)
	if err != nil {
		slog.Error("Failed to complete follow-up", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to complete follow-up",
		})
	}
	if followUp == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Follow-up not found",
		})
	}

	return c.JSON(fiber.Map{"followup": followUp})
}

// CancelFollowUp marks a follow-up cancelled
func CancelFollowUp(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	actor, _ := c.Locals("caller_id").(string)
	followUp, err := services.CancelFollowUp(ctx, c.Params("followUpID"), actor)
	if err != nil {
		slog.Error("Failed to cancel follow-up", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel follow-up",
		})
	}
	if followUp == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Follow-up not found",
		})
	}

	return c.JSON(fiber.Map{"followup": followUp})
}

// RemindFollowUp marks the reminder as sent. Repeated calls are no-ops.
func RemindFollowUp(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	followUp, err := services.MarkReminderSent(ctx, c.Params("followUpID"))
	if err != nil {
		slog.Error("Failed to mark reminder sent", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark reminder sent",
		})
	}
	if followUp == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Follow-up not found",
		})
	}

	return c.JSON(fiber.Map{"followup": followUp})
}

// DeleteFollowUp removes a follow-up
func DeleteFollowUp(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := services.DeleteFollowUp(ctx, c.Params("followUpID"))
	if err != nil {
		slog.Error("Failed to delete follow-up", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete follow-up",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Follow-up not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Follow-up deleted successfully"})
}
