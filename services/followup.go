package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estate-crm/models"
)

// CreateFollowUp inserts a follow-up for an existing lead and writes the
// audit record best-effort. Returns (nil, nil) when the lead does not exist.
func CreateFollowUp(ctx context.Context, followUp *models.FollowUp, actor string) (*models.FollowUp, error) {
	lead, err := GetLead(ctx, followUp.LeadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, nil
	}

	collection := database.Collection("followups")

	followUp.ApplyDefaults()
	now := time.Now()
	followUp.CreatedAt = now
	followUp.UpdatedAt = now

	result, err := collection.InsertOne(ctx, followUp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert follow-up: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		followUp.ID = oid
	}

	// Keep the lead's next_follow_up pointer current
	if lead.NextFollowUp == nil || followUp.ScheduledFor.Before(*lead.NextFollowUp) {
		UpdateLead(ctx, followUp.LeadID, bson.M{"next_follow_up": followUp.ScheduledFor})
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      followUp.LeadID,
		Actor:       actor,
		Type:        models.ActivityFollowUpCreated,
		Description: fmt.Sprintf("Follow-up (%s) scheduled for %s", followUp.Type, followUp.ScheduledFor.Format("2006-01-02 15:04")),
	})

	slog.Info("Follow-up created",
		"followUpID", followUp.ID.Hex(),
		"leadID", followUp.LeadID,
		"scheduledFor", followUp.ScheduledFor)

	return followUp, nil
}

// GetFollowUp retrieves a follow-up by hex id. Returns (nil, nil) when not found.
func GetFollowUp(ctx context.Context, id string) (*models.FollowUp, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("followups")

	var followUp models.FollowUp
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&followUp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &followUp, nil
}

// ListFollowUps retrieves follow-ups with optional filters, soonest first
func ListFollowUps(ctx context.Context, leadID, status string, limit, skip int) ([]models.FollowUp, int64, error) {
	collection := database.Collection("followups")

	query := bson.M{}
	if leadID != "" {
		query["lead_id"] = leadID
	}
	if status != "" {
		query["status"] = status
	}

	totalCount, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.M{"scheduled_for": 1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var followUps []models.FollowUp
	if err := cursor.All(ctx, &followUps); err != nil {
		return nil, 0, err
	}

	return followUps, totalCount, nil
}

// UpdateFollowUp applies a partial update and returns the post-update document
func UpdateFollowUp(ctx context.Context, id string, fields bson.M) (*models.FollowUp, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("followups")

	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var followUp models.FollowUp
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&followUp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Error("Failed to update follow-up", "followUpID", id, "error", err)
		return nil, err
	}

	return &followUp, nil
}

// CompleteFollowUp transitions a follow-up to completed. Completing an
// already-completed follow-up is a no-op that returns the current document,
// so repeat calls stay idempotent.
func CompleteFollowUp(ctx context.Context, id, outcome, notes, actor string) (*models.FollowUp, error) {
	followUp, err := GetFollowUp(ctx, id)
	if err != nil || followUp == nil {
		return followUp, err
	}

	if followUp.Status == models.FollowUpCompleted {
		return followUp, nil
	}

	now := time.Now()
	fields := bson.M{
		"status":       models.FollowUpCompleted,
		"outcome":      outcome,
		"completed_at": now,
	}
	if notes != "" {
		fields["notes"] = notes
	}

	updated, err := UpdateFollowUp(ctx, id, fields)
	if err != nil || updated == nil {
		return updated, err
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      updated.LeadID,
		Actor:       actor,
		Type:        models.ActivityFollowUpCompleted,
		Description: fmt.Sprintf("Follow-up completed: %s", outcome),
	})

	return updated, nil
}

// CancelFollowUp transitions a follow-up to cancelled
func CancelFollowUp(ctx context.Context, id, actor string) (*models.FollowUp, error) {
	updated, err := UpdateFollowUp(ctx, id, bson.M{"status": models.FollowUpCancelled})
	if err != nil || updated == nil {
		return updated, err
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      updated.LeadID,
		Actor:       actor,
		Type:        models.ActivityFollowUpCancelled,
		Description: "Follow-up cancelled",
	})

	return updated, nil
}

// MarkReminderSent sets the reminder flag once
func MarkReminderSent(ctx context.Context, id string) (*models.FollowUp, error) {
	return UpdateFollowUp(ctx, id, bson.M{"reminder_sent": true})
}

// DeleteFollowUp removes a follow-up document
func DeleteFollowUp(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	collection := database.Collection("followups")

	result, err := collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

// SweepFollowUps marks overdue pending follow-ups missed and flags the
// reminder bit on follow-ups coming due within the reminder window.
// Returns (missed, reminded).
func SweepFollowUps(ctx context.Context, reminderWindow time.Duration) (int64, int64, error) {
	collection := database.Collection("followups")
	now := time.Now()

	missedResult, err := collection.UpdateMany(ctx,
		bson.M{
			"status":        models.FollowUpPending,
			"scheduled_for": bson.M{"$lt": now},
		},
		bson.M{"$set": bson.M{
			"status":     models.FollowUpMissed,
			"updated_at": now,
		}},
	)
	if err != nil {
		return 0, 0, err
	}

	remindResult, err := collection.UpdateMany(ctx,
		bson.M{
			"status":        models.FollowUpPending,
			"reminder_sent": false,
			"scheduled_for": bson.M{"$gte": now, "$lte": now.Add(reminderWindow)},
		},
		bson.M{"$set": bson.M{
			"reminder_sent": true,
			"updated_at":    now,
		}},
	)
	if err != nil {
		return missedResult.ModifiedCount, 0, err
	}

	return missedResult.ModifiedCount, remindResult.ModifiedCount, nil
}
