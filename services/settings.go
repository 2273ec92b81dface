package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estate-crm/models"
)

// GetSettings returns the singleton settings document, creating it with
// defaults on first access
func GetSettings(ctx context.Context) (*models.Settings, error) {
	collection := database.Collection("settings")

	var settings models.Settings
	err := collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	defaults := models.DefaultSettings()
	if _, err := collection.InsertOne(ctx, defaults); err != nil {
		return nil, err
	}

	slog.Info("Settings document created with defaults")
	return defaults, nil
}

// UpdateSettings applies a partial update to the singleton document and
// returns the post-update state
func UpdateSettings(ctx context.Context, fields bson.M) (*models.Settings, error) {
	collection := database.Collection("settings")

	// Ensure the singleton exists first
	if _, err := GetSettings(ctx); err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var settings models.Settings
	err := collection.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$set": fields}, opts).Decode(&settings)
	if err != nil {
		slog.Error("Failed to update settings", "error", err)
		return nil, err
	}

	return &settings, nil
}
