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

type CreateMeetingRequest struct {
	Title           string    `json:"title" validate:"required"`
	LeadID          string    `json:"leadId"`
	CallerID        string    `json:"callerId"`
	Location        string    `json:"location"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
}

// GetMeetings lists meetings filtered by lead, caller, or status
func GetMeetings(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	meetings, totalCount, err := services.ListMeetings(ctx,
		c.Query("lead_id"), c.Query("caller_id"), c.Query("status"), limit, skip)
	if err != nil {
		slog.Error("Failed to list meetings", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve meetings",
		})
	}

	return c.JSON(fiber.Map{
		"meetings": meetings,
		"pagination": fiber.Map{
			"limit": limit,
			"skip":  skip,
			"total": totalCount,
		},
	})
}

// GetMeetingDetails retrieves a single meeting
func GetMeetingDetails(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	meeting, err := services.GetMeeting(ctx, c.Params("meetingID"))
	if err != nil {
		slog.Error("Failed to get meeting", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve meeting",
		})
	}
	if meeting == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	return c.JSON(fiber.Map{"meeting": meeting})
}

// CreateMeeting schedules a new meeting
func CreateMeeting(c *fiber.Ctx) error {
	var req CreateMeetingRequest
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

	meeting := &models.Meeting{
		Title:           req.Title,
		LeadID:          req.LeadID,
		CallerID:        req.CallerID,
		Location:        req.Location,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	actor, _ := c.Locals("caller_id").(string)
	if err := services.CreateMeeting(ctx, meeting, actor); err != nil {
		slog.Error("Failed to create meeting", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create meeting",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"meeting": meeting})
}

// UpdateMeeting applies a partial update
func UpdateMeeting(c *fiber.Ctx) error {
	var req struct {
		Title           *string    `json:"title"`
		Location        *string    `json:"location"`
		ScheduledAt     *time.Time `json:"scheduled_at"`
		DurationMinutes *int       `json:"duration_minutes"`
		Status          *string    `json:"status"`
		Notes           *string    `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.ScheduledAt != nil {
		fields["scheduled_at"] = *req.ScheduledAt
	}
	if req.DurationMinutes != nil {
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.Status != nil {
		switch models.MeetingStatus(*req.Status) {
		case models.MeetingScheduled, models.MeetingCompleted, models.MeetingCancelled, models.MeetingNoShow:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status value",
			})
		}
		fields["status"] = *req.Status
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

	actor, _ := c.Locals("caller_id").(string)
	meeting, err := services.UpdateMeeting(ctx, c.Params("meetingID"), fields, actor)
	if err != nil {
		slog.Error("Failed to update meeting", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update meeting",
		})
	}
	if meeting == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	return c.JSON(fiber.Map{"meeting": meeting})
}

// DeleteMeeting removes a meeting
func DeleteMeeting(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := services.DeleteMeeting(ctx, c.Params("meetingID"))
	if err != nil {
		slog.Error("Failed to delete meeting", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete meeting",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Meeting deleted successfully"})
}
