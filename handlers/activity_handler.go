package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"estate-crm/services"
)

// GetActivities lists the activity feed, newest first, optionally
// scoped to a single lead
func GetActivities(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit > 200 {
		limit = 200
	}
	skip := c.QueryInt("skip", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	activities, totalCount, err := services.ListActivities(ctx, c.Query("lead_id"), limit, skip)
	if err != nil {
		slog.Error("Failed to list activities", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve activities",
		})
	}

	return c.JSON(fiber.Map{
		"activities": activities,
		"pagination": fiber.Map{
			"limit": limit,
			"skip":  skip,
			"total": totalCount,
		},
	})
}
