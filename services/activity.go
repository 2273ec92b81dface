package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estate-crm/models"
)

// LogActivity appends an audit record. Failures are logged and swallowed:
// the primary write an activity describes has already been committed.
func LogActivity(ctx context.Context, activity *models.Activity) {
	collection := database.Collection("activities")

	if activity.Actor == "" {
		activity.Actor = "system"
	}
	activity.CreatedAt = time.Now()

	if _, err := collection.InsertOne(ctx, activity); err != nil {
		slog.Error("Failed to log activity",
			"type", activity.Type,
			"leadID", activity.LeadID,
			"error", err)
	}
}

// ListActivities retrieves audit records, newest first, optionally
// filtered by lead
func ListActivities(ctx context.Context, leadID string, limit, skip int) ([]models.Activity, int64, error) {
	collection := database.Collection("activities")

	query := bson.M{}
	if leadID != "" {
		query["lead_id"] = leadID
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

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, 0, err
	}

	return activities, totalCount, nil
}
