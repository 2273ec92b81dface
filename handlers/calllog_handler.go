package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"estate-crm/models"
	"estate-crm/services"
)

type CreateCallLogRequest struct {
	LeadID          string `json:"leadId" validate:"required"`
	Direction       string `json:"direction" validate:"omitempty,oneof=outbound inbound"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
	Outcome         string `json:"outcome" validate:"required,oneof=connected no_answer busy wrong_number callback_requested"`
	Notes           string `json:"notes"`
}

// GetCallLogs lists call logs filtered by lead or caller
func GetCallLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs, totalCount, err := services.ListCallLogs(ctx, c.Query("lead_id"), c.Query("caller_id"), limit, skip)
	if err != nil {
		slog.Error("Failed to list call logs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve call logs",
		})
	}

	return c.JSON(fiber.Map{
		"call_logs": logs,
		"pagination": fiber.Map{
			"limit": limit,
			"skip":  skip,
			"total": totalCount,
		},
	})
}

// CreateCallLog records a call made by the authenticated caller
func CreateCallLog(c *fiber.Ctx) error {
	var req CreateCallLogRequest
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

	callerID, _ := c.Locals("caller_id").(string)
	callLog := &models.CallLog{
		LeadID:          req.LeadID,
		CallerID:        callerID,
		Direction:       req.Direction,
		DurationSeconds: req.DurationSeconds,
		Outcome:         models.CallOutcome(req.Outcome),
		Notes:           req.Notes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := services.CreateCallLog(ctx, callLog); err != nil {
		slog.Error("Failed to create call log", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to log call",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call_log": callLog})
}

// DeleteCallLog removes a call log entry. Admin only.
func DeleteCallLog(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := services.DeleteCallLog(ctx, c.Params("callLogID"))
	if err != nil {
		slog.Error("Failed to delete call log", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete call log",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Call log not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Call log deleted successfully"})
}
