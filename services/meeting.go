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

// CreateMeeting inserts a meeting and writes the audit record best-effort
func CreateMeeting(ctx context.Context, meeting *models.Meeting, actor string) error {
	collection := database.Collection("meetings")

	meeting.ApplyDefaults()
	now := time.Now()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	result, err := collection.InsertOne(ctx, meeting)
	if err != nil {
		return fmt.Errorf("failed to insert meeting: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		meeting.ID = oid
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      meeting.LeadID,
		Actor:       actor,
		Type:        models.ActivityMeetingScheduled,
		Description: fmt.Sprintf("Meeting %q scheduled for %s", meeting.Title, meeting.ScheduledAt.Format("2006-01-02 15:04")),
	})

	slog.Info("Meeting created", "meetingID", meeting.ID.Hex(), "leadID", meeting.LeadID)
	return nil
}

// GetMeeting retrieves a meeting by hex id. Returns (nil, nil) when not found.
func GetMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("meetings")

	var meeting models.Meeting
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&meeting)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &meeting, nil
}

// ListMeetings retrieves meetings with optional filters, soonest first
func ListMeetings(ctx context.Context, leadID, callerID, status string, limit, skip int) ([]models.Meeting, int64, error) {
	collection := database.Collection("meetings")

	query := bson.M{}
	if leadID != "" {
		query["lead_id"] = leadID
	}
	if callerID != "" {
		query["caller_id"] = callerID
	}
	if status != "" {
		query["status"] = status
	}

	totalCount, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.M{"scheduled_at": 1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var meetings []models.Meeting
	if err := cursor.All(ctx, &meetings); err != nil {
		return nil, 0, err
	}

	return meetings, totalCount, nil
}

// UpdateMeeting applies a partial update, returns the post-update document,
// and writes the audit record best-effort
func UpdateMeeting(ctx context.Context, id string, fields bson.M, actor string) (*models.Meeting, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("meetings")

	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var meeting models.Meeting
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&meeting)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Error("Failed to update meeting", "meetingID", id, "error", err)
		return nil, err
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      meeting.LeadID,
		Actor:       actor,
		Type:        models.ActivityMeetingUpdated,
		Description: fmt.Sprintf("Meeting %q updated", meeting.Title),
	})

	return &meeting, nil
}

// DeleteMeeting removes a meeting. Lead and caller documents are untouched
// (no cascade).
func DeleteMeeting(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	collection := database.Collection("meetings")

	result, err := collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}
