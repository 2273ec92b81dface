package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"estate-crm/services"
)

// GetSettings returns the singleton settings document, creating it with
// defaults on first access
func GetSettings(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := services.GetSettings(ctx)
	if err != nil {
		slog.Error("Failed to get settings", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve settings",
		})
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateSettings applies a partial update to the singleton. Admin only.
func UpdateSettings(c *fiber.Ctx) error {
	var req struct {
		CompanyName         *string `json:"company_name"`
		Timezone            *string `json:"timezone"`
		AutoAssignEnabled   *bool   `json:"auto_assign_enabled"`
		ReminderWindowHours *int    `json:"reminder_window_hours"`
		WorkdayStartHour    *int    `json:"workday_start_hour"`
		WorkdayEndHour      *int    `json:"workday_end_hour"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	fields := bson.M{}
	if req.CompanyName != nil {
		fields["company_name"] = *req.CompanyName
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid timezone",
			})
		}
		fields["timezone"] = *req.Timezone
	}
	if req.AutoAssignEnabled != nil {
		fields["auto_assign_enabled"] = *req.AutoAssignEnabled
	}
	if req.ReminderWindowHours != nil {
		if *req.ReminderWindowHours < 1 || *req.ReminderWindowHours > 168 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "reminder_window_hours must be between 1 and 168",
			})
		}
		fields["reminder_window_hours"] = *req.ReminderWindowHours
	}
	if req.WorkdayStartHour != nil {
		fields["workday_start_hour"] = *req.WorkdayStartHour
	}
	if req.WorkdayEndHour != nil {
		fields["workday_end_hour"] = *req.WorkdayEndHour
	}

	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := services.UpdateSettings(ctx, fields)
	if err != nil {
		slog.Error("Failed to update settings", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	return c.JSON(fiber.Map{"settings": settings})
}
