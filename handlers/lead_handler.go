package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"estate-crm/models"
	"estate-crm/services"
)

type CreateLeadRequest struct {
	Name           string  `json:"name" validate:"required"`
	Phone          string  `json:"phone" validate:"required"`
	Email          string  `json:"email" validate:"omitempty,email"`
	City           string  `json:"city"`
	Value          float64 `json:"value"`
	Source         string  `json:"source" validate:"omitempty,oneof=manual import google_sheets meta_ads whatsapp website referral"`
	Stage          string  `json:"stage" validate:"omitempty,oneof=new qualified proposal negotiation won lost"`
	Priority       string  `json:"priority" validate:"omitempty,oneof=hot warm cold"`
	AssignedCaller string  `json:"assigned_caller"`
	AssignedBroker string  `json:"assigned_broker"`
	Notes          string  `json:"notes"`
}

type UpdateLeadRequest struct {
	Name           *string    `json:"name"`
	Phone          *string    `json:"phone"`
	Email          *string    `json:"email"`
	City           *string    `json:"city"`
	Value          *float64   `json:"value"`
	Stage          *string    `json:"stage"`
	Priority       *string    `json:"priority"`
	Status         *string    `json:"status"`
	AssignedCaller *string    `json:"assigned_caller"`
	AssignedBroker *string    `json:"assigned_broker"`
	NextFollowUp   *time.Time `json:"next_follow_up"`
}

// GetLeads lists leads with filtering and pagination
func GetLeads(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit > 200 {
		limit = 200
	}
	skip := c.QueryInt("skip", 0)

	filter := services.LeadFilter{
		Stage:          c.Query("stage"),
		Priority:       c.Query("priority"),
		Source:         c.Query("source"),
		AssignedCaller: c.Query("assigned_caller"),
		AssignedBroker: c.Query("assigned_broker"),
		Search:         c.Query("q"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	leads, totalCount, err := services.ListLeads(ctx, filter, limit, skip)
	if err != nil {
		slog.Error("Failed to list leads", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve leads",
		})
	}

	return c.JSON(fiber.Map{
		"leads": leads,
		"pagination": fiber.Map{
			"limit": limit,
			"skip":  skip,
			"total": totalCount,
		},
	})
}

// GetLeadDetails retrieves a single lead
func GetLeadDetails(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, err := services.GetLead(ctx, c.Params("leadID"))
	if err != nil {
		slog.Error("Failed to get lead", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve lead",
		})
	}
	if lead == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	return c.JSON(fiber.Map{"lead": lead})
}

// CreateLead creates a lead from the request body; omitted stage/priority
// fall back to the schema defaults
func CreateLead(c *fiber.Ctx) error {
	var req CreateLeadRequest
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

	lead := &models.Lead{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		City:           req.City,
		Value:          req.Value,
		Source:         models.LeadSource(req.Source),
		Stage:          models.LeadStage(req.Stage),
		Priority:       models.LeadPriority(req.Priority),
		AssignedCaller: req.AssignedCaller,
		AssignedBroker: req.AssignedBroker,
		Notes:          req.Notes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := services.CreateLead(ctx, lead); err != nil {
		slog.Error("Failed to create lead", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create lead",
		})
	}

	actor, _ := c.Locals("caller_id").(string)
	services.LogActivity(ctx, &models.Activity{
		LeadID:      lead.ID.Hex(),
		Actor:       actor,
		Type:        models.ActivityLeadCreated,
		Description: fmt.Sprintf("Lead %q created", lead.Name),
	})

	services.GetWebSocketManager().Broadcast(services.BroadcastMessage{
		Type: "lead_created",
		Data: lead,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lead": lead})
}

// UpdateLead applies a partial update and returns the post-update document
func UpdateLead(c *fiber.Ctx) error {
	var req UpdateLeadRequest
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
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Value != nil {
		fields["value"] = *req.Value
	}
	if req.Stage != nil {
		if !models.IsValidStage(*req.Stage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid stage value",
			})
		}
		fields["stage"] = *req.Stage
	}
	if req.Priority != nil {
		if !models.IsValidPriority(*req.Priority) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid priority value",
			})
		}
		fields["priority"] = *req.Priority
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.AssignedCaller != nil {
		fields["assigned_caller"] = *req.AssignedCaller
	}
	if req.AssignedBroker != nil {
		fields["assigned_broker"] = *req.AssignedBroker
	}
	if req.NextFollowUp != nil {
		fields["next_follow_up"] = *req.NextFollowUp
	}

	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, err := services.UpdateLead(ctx, c.Params("leadID"), fields)
	if err != nil {
		slog.Error("Failed to update lead", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update lead",
		})
	}
	if lead == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	actor, _ := c.Locals("caller_id").(string)
	services.LogActivity(ctx, &models.Activity{
		LeadID:      lead.ID.Hex(),
		Actor:       actor,
		Type:        models.ActivityLeadUpdated,
		Description: fmt.Sprintf("Lead %q updated", lead.Name),
	})

	return c.JSON(fiber.Map{"lead": lead})
}

// AddLeadNote appends to the lead's free-text notes
func AddLeadNote(c *fiber.Ctx) error {
	var req struct {
		Note string `json:"note" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil || req.Note == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Note text is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, err := services.AppendLeadNote(ctx, c.Params("leadID"), req.Note)
	if err != nil {
		slog.Error("Failed to append lead note", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add note",
		})
	}
	if lead == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	actor, _ := c.Locals("caller_id").(string)
	services.LogActivity(ctx, &models.Activity{
		LeadID:      lead.ID.Hex(),
		Actor:       actor,
		Type:        models.ActivityNoteAdded,
		Description: "Note added",
	})

	return c.JSON(fiber.Map{"lead": lead})
}

// DeleteLead removes a lead
func DeleteLead(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := services.DeleteLead(ctx, c.Params("leadID"))
	if err != nil {
		slog.Error("Failed to delete lead", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete lead",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Lead deleted successfully"})
}

// MergeDuplicateLeads merges duplicates onto a primary lead and deletes them
func MergeDuplicateLeads(c *fiber.Ctx) error {
	var req struct {
		PrimaryID    string   `json:"primaryId" validate:"required"`
		DuplicateIDs []string `json:"duplicateIds" validate:"required,min=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "primaryId and duplicateIds are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	actor, _ := c.Locals("caller_id").(string)
	lead, merged, err := services.MergeLeads(ctx, req.PrimaryID, req.DuplicateIDs, actor)
	if err != nil {
		slog.Error("Failed to merge leads", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to merge leads",
		})
	}
	if lead == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Primary lead not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Leads merged successfully",
		"lead":    lead,
		"merged":  merged,
	})
}

// BulkAssignLeads assigns a caller and/or broker to a batch of leads
func BulkAssignLeads(c *fiber.Ctx) error {
	var req struct {
		LeadIDs  []string `json:"leadIds" validate:"required,min=1"`
		CallerID string   `json:"callerId"`
		BrokerID string   `json:"brokerId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.LeadIDs) == 0 || (req.CallerID == "" && req.BrokerID == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "leadIds and at least one of callerId/brokerId are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	modified, err := services.BulkAssignLeads(ctx, req.LeadIDs, req.CallerID, req.BrokerID)
	if err != nil {
		slog.Error("Failed to bulk assign leads", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign leads",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Leads assigned successfully",
		"modified": modified,
	})
}

// ImportLeads creates leads from an uploaded XLSX file
func ImportLeads(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "An XLSX file upload named \"file\" is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open uploaded file",
		})
	}
	defer file.Close()

	leads, skipped, err := services.ParseLeadsWorkbook(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to parse workbook: %v", err),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	actor, _ := c.Locals("caller_id").(string)
	batchID := uuid.New().String()

	imported := 0
	duplicates := 0
	for i := range leads {
		lead := &leads[i]
		lead.ImportBatchID = batchID

		existing, err := services.GetLeadByNormalizedPhone(ctx, lead.Phone)
		if err != nil {
			slog.Error("Duplicate lookup failed, skipping row", "phone", lead.Phone, "error", err)
			skipped++
			continue
		}
		if existing != nil {
			duplicates++
			continue
		}

		if err := services.CreateLead(ctx, lead); err != nil {
			slog.Error("Failed to import lead", "name", lead.Name, "error", err)
			continue
		}
		imported++

		services.LogActivity(ctx, &models.Activity{
			LeadID:      lead.ID.Hex(),
			Actor:       actor,
			Type:        models.ActivityLeadImported,
			Description: fmt.Sprintf("Lead %q imported from file", lead.Name),
			Metadata:    map[string]interface{}{"import_batch_id": batchID},
		})
	}

	slog.Info("Lead import finished",
		"batchID", batchID,
		"imported", imported,
		"duplicates", duplicates,
		"skipped", skipped)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Import finished",
		"batch_id":   batchID,
		"imported":   imported,
		"duplicates": duplicates,
		"skipped":    skipped,
	})
}

// ExportLeads streams the current leads as an XLSX download
func ExportLeads(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := services.LeadFilter{
		Stage:          c.Query("stage"),
		AssignedCaller: c.Query("assigned_caller"),
	}

	leads, _, err := services.ListLeads(ctx, filter, 10000, 0)
	if err != nil {
		slog.Error("Failed to list leads for export", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export leads",
		})
	}

	workbook, err := services.BuildLeadsWorkbook(leads)
	if err != nil {
		slog.Error("Failed to build leads workbook", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export leads",
		})
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		slog.Error("Failed to write leads workbook", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export leads",
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=leads-%s.xlsx", time.Now().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}
