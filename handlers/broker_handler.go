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

type CreateBrokerRequest struct {
	Name                 string  `json:"name" validate:"required"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email" validate:"omitempty,email"`
	Company              string  `json:"company"`
	CommissionPercentage float64 `json:"commission_percentage" validate:"gte=0,lte=100"`
}

// GetBrokers lists brokers
func GetBrokers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	brokers, totalCount, err := services.ListBrokers(ctx, c.Query("status"), limit, skip)
	if err != nil {
		slog.Error("Failed to list brokers", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve brokers",
		})
	}

	return c.JSON(fiber.Map{
		"brokers": brokers,
		"pagination": fiber.Map{
			"limit": limit,
			"skip":  skip,
			"total": totalCount,
		},
	})
}

// GetBrokerDetails retrieves a single broker
func GetBrokerDetails(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	broker, err := services.GetBroker(ctx, c.Params("brokerID"))
	if err != nil {
		slog.Error("Failed to get broker", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve broker",
		})
	}
	if broker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Broker not found",
		})
	}

	return c.JSON(fiber.Map{"broker": broker})
}

// CreateBroker registers a new broker
func CreateBroker(c *fiber.Ctx) error {
	var req CreateBrokerRequest
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

	broker := &models.Broker{
		Name:                 req.Name,
		Phone:                req.Phone,
		Email:                req.Email,
		Company:              req.Company,
		CommissionPercentage: req.CommissionPercentage,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := services.CreateBroker(ctx, broker); err != nil {
		slog.Error("Failed to create broker", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create broker",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"broker": broker})
}

// UpdateBroker applies a partial update
func UpdateBroker(c *fiber.Ctx) error {
	var req struct {
		Name                 *string  `json:"name"`
		Phone                *string  `json:"phone"`
		Email                *string  `json:"email"`
		Company              *string  `json:"company"`
		CommissionPercentage *float64 `json:"commission_percentage"`
		Status               *string  `json:"status"`
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
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Company != nil {
		fields["company"] = *req.Company
	}
	if req.CommissionPercentage != nil {
		if *req.CommissionPercentage < 0 || *req.CommissionPercentage > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Commission percentage must be between 0 and 100",
			})
		}
		fields["commission_percentage"] = *req.CommissionPercentage
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	broker, err := services.UpdateBroker(ctx, c.Params("brokerID"), fields)
	if err != nil {
		slog.Error("Failed to update broker", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update broker",
		})
	}
	if broker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Broker not found",
		})
	}

	return c.JSON(fiber.Map{"broker": broker})
}

// DeleteBroker removes a broker. Leads referencing it are left untouched.
func DeleteBroker(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := services.DeleteBroker(ctx, c.Params("brokerID"))
	if err != nil {
		slog.Error("Failed to delete broker", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete broker",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Broker not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Broker deleted successfully"})
}

// AssignLeadsToBroker replaces the broker's denormalized lead list. The
// Lead side is left untouched; leads are stamped through the lead routes.
func AssignLeadsToBroker(c *fiber.Ctx) error {
	var req struct {
		LeadIDs []string `json:"leadIds" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	brokerID := c.Params("brokerID")
	broker, err := services.AssignLeadsToBroker(ctx, brokerID, req.LeadIDs)
	if err != nil {
		slog.Error("Failed to assign leads to broker", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign leads",
		})
	}
	if broker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Broker not found",
		})
	}

	return c.JSON(fiber.Map{"broker": broker})
}
