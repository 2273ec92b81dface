package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"estate-crm/models"
)

// PickLeastRecentlyAssigned selects the next round-robin target from a set
// of callers: the active caller whose last assignment is oldest, with
// never-assigned callers first. Returns nil when no active caller exists.
func PickLeastRecentlyAssigned(callers []models.Caller) *models.Caller {
	var pick *models.Caller
	for i := range callers {
		c := &callers[i]
		if c.Status != "active" {
			continue
		}
		if pick == nil {
			pick = c
			continue
		}
		if c.LastAssignedAt == nil {
			if pick.LastAssignedAt != nil {
				pick = c
			}
			continue
		}
		if pick.LastAssignedAt != nil && c.LastAssignedAt.Before(*pick.LastAssignedAt) {
			pick = c
		}
	}
	return pick
}

// AutoAssignLead assigns a lead to the next caller in the round-robin
// rotation when auto-assignment is enabled. Returns the chosen caller id,
// or "" when assignment was skipped.
func AutoAssignLead(ctx context.Context, lead *models.Lead) (string, error) {
	settings, err := GetSettings(ctx)
	if err != nil {
		return "", err
	}
	if !settings.AutoAssignEnabled {
		return "", nil
	}

	callers, _, err := ListCallers(ctx, "active", 500, 0)
	if err != nil {
		return "", err
	}

	pick := PickLeastRecentlyAssigned(callers)
	if pick == nil {
		slog.Warn("Auto-assignment skipped, no active callers")
		return "", nil
	}

	callerID := pick.ID.Hex()
	now := time.Now()

	if _, err := UpdateLead(ctx, lead.ID.Hex(), bson.M{"assigned_caller": callerID}); err != nil {
		return "", err
	}
	lead.AssignedCaller = callerID

	callersCollection := database.Collection("callers")
	if _, err := callersCollection.UpdateOne(ctx,
		bson.M{"_id": pick.ID},
		bson.M{"$set": bson.M{"last_assigned_at": now}},
	); err != nil {
		slog.Error("Failed to stamp caller assignment time", "callerID", callerID, "error", err)
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      lead.ID.Hex(),
		Type:        models.ActivityLeadAssigned,
		Description: fmt.Sprintf("Lead auto-assigned to %s", pick.Name),
		Metadata:    map[string]interface{}{"caller_id": callerID},
	})

	slog.Info("Lead auto-assigned", "leadID", lead.ID.Hex(), "callerID", callerID)
	return callerID, nil
}
