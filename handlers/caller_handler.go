package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"estate-crm/models"
	"estate-crm/services"
)

type CreateCallerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"omitempty,oneof=caller admin"`
}

// GetCallers lists caller accounts
func GetCallers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	callers, totalCount, err := services.ListCallers(ctx, c.Query("status"), limit, skip)
	if err != nil {
		slog.Error("Failed to list callers", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve callers",
		})
	}

	return c.JSON(fiber.Map{
		"callers": callers,
		"pagination": fiber.Map{
			"limit": limit,
			"skip":  skip,
			"total": totalCount,
		},
	})
}

// GetCallerDetails retrieves a single caller
func GetCallerDetails(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	caller, err := services.GetCaller(ctx, c.Params("callerID"))
	if err != nil {
		slog.Error("Failed to get caller", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve caller",
		})
	}
	if caller == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Caller not found",
		})
	}

	return c.JSON(fiber.Map{"caller": caller})
}

// CreateCaller registers a new caller account. Admin only.
func CreateCaller(c *fiber.Ctx) error {
	var req CreateCallerRequest
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

	role := req.Role
	if role == "" {
		role = string(models.RoleCaller)
	}

	caller := &models.Caller{
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		Name:     req.Name,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    req.Phone,
		Role:     models.CallerRole(role),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := services.CreateCaller(ctx, caller, req.Password); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Username or email already in use",
			})
		}
		slog.Error("Failed to create caller", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create caller",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"caller": caller})
}

// UpdateCaller applies a partial update; a "password" field is re-hashed
func UpdateCaller(c *fiber.Ctx) error {
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Role     *string `json:"role"`
		Status   *string `json:"status"`
		Password *string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Role != nil {
		if !models.IsValidCallerRole(*req.Role) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid role value",
			})
		}
		fields["role"] = *req.Role
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Password must be at least 8 characters",
			})
		}
		fields["password"] = *req.Password
	}

	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	caller, err := services.UpdateCaller(ctx, c.Params("callerID"), fields)
	if err != nil {
		slog.Error("Failed to update caller", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update caller",
		})
	}
	if caller == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Caller not found",
		})
	}

	return c.JSON(fiber.Map{"caller": caller})
}

// DeleteCaller removes a caller account. Leads assigned to the caller
// keep their assignment until reassigned.
func DeleteCaller(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := services.DeleteCaller(ctx, c.Params("callerID"))
	if err != nil {
		slog.Error("Failed to delete caller", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete caller",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Caller not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Caller deleted successfully"})
}

// GetCallerDailyStats returns per-day stats for the last N calendar days
func GetCallerDailyStats(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 {
		days = 1
	}
	if days > 90 {
		days = 90
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	callerID := c.Params("callerID")
	caller, err := services.GetCaller(ctx, callerID)
	if err != nil {
		slog.Error("Failed to get caller", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve caller",
		})
	}
	if caller == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Caller not found",
		})
	}

	stats, err := services.GetCallerDailyStats(ctx, callerID, days)
	if err != nil {
		slog.Error("Failed to compute caller daily stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}

	return c.JSON(fiber.Map{
		"caller_id": callerID,
		"days":      days,
		"stats":     stats,
	})
}

// GetCallerTodayStats returns the caller's live counters for today
func GetCallerTodayStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	callerID := c.Params("callerID")
	caller, err := services.GetCaller(ctx, callerID)
	if err != nil {
		slog.Error("Failed to get caller", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve caller",
		})
	}
	if caller == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Caller not found",
		})
	}

	stats, err := services.GetCallerTodayStats(ctx, callerID)
	if err != nil {
		slog.Error("Failed to compute caller today stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}

	return c.JSON(stats)
}
