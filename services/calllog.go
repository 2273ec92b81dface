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

// CreateCallLog appends a call record and writes the audit entry best-effort
func CreateCallLog(ctx context.Context, log *models.CallLog) error {
	collection := database.Collection("call_logs")

	if log.Direction == "" {
		log.Direction = "outbound"
	}
	log.CreatedAt = time.Now()

	result, err := collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to insert call log: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      log.LeadID,
		Actor:       log.CallerID,
		Type:        models.ActivityCallLogged,
		Description: fmt.Sprintf("Call logged: %s (%ds)", log.Outcome, log.DurationSeconds),
	})

	slog.Info("Call logged",
		"callLogID", log.ID.Hex(),
		"leadID", log.LeadID,
		"callerID", log.CallerID,
		"outcome", log.Outcome)

	return nil
}

// GetCallLog retrieves a call log by hex id. Returns (nil, nil) when not found.
func GetCallLog(ctx context.Context, id string) (*models.CallLog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("call_logs")

	var log models.CallLog
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&log)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &log, nil
}

// ListCallLogs retrieves call logs with optional filters, newest first
func ListCallLogs(ctx context.Context, leadID, callerID string, limit, skip int) ([]models.CallLog, int64, error) {
	collection := database.Collection("call_logs")

	query := bson.M{}
	if leadID != "" {
		query["lead_id"] = leadID
	}
	if callerID != "" {
		query["caller_id"] = callerID
	}

	totalCount, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var logs []models.CallLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}

	return logs, totalCount, nil
}

// GetCallLogsSince fetches a caller's call logs created after the given time
func GetCallLogsSince(ctx context.Context, callerID string, since time.Time) ([]models.CallLog, error) {
	collection := database.Collection("call_logs")

	query := bson.M{
		"caller_id":  callerID,
		"created_at": bson.M{"$gte": since},
	}

	cursor, err := collection.Find(ctx, query, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.CallLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

// DeleteCallLog removes a call log document
func DeleteCallLog(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	collection := database.Collection("call_logs")

	result, err := collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}
