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

// GetIntegrationByType retrieves the integration document for a source type.
// Returns (nil, nil) when none has been configured yet.
func GetIntegrationByType(ctx context.Context, integrationType string) (*models.Integration, error) {
	collection := database.Collection("integrations")

	var integration models.Integration
	err := collection.FindOne(ctx, bson.M{"type": integrationType}).Decode(&integration)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &integration, nil
}

// ListIntegrations returns all integration documents
func ListIntegrations(ctx context.Context) ([]models.Integration, error) {
	collection := database.Collection("integrations")

	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"type": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var integrations []models.Integration
	if err := cursor.All(ctx, &integrations); err != nil {
		return nil, err
	}

	return integrations, nil
}

// ConnectIntegration upserts credentials and config for a source type and
// marks it connected
func ConnectIntegration(ctx context.Context, integrationType, credentials string, config models.IntegrationConfig) (*models.Integration, error) {
	collection := database.Collection("integrations")

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"connected":   true,
			"credentials": credentials,
			"config":      config,
			"last_error":  "",
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"type":                 integrationType,
			"total_leads_imported": int64(0),
			"created_at":           now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var integration models.Integration
	err := collection.FindOneAndUpdate(ctx, bson.M{"type": integrationType}, update, opts).Decode(&integration)
	if err != nil {
		slog.Error("Failed to connect integration", "type", integrationType, "error", err)
		return nil, err
	}

	slog.Info("Integration connected", "type", integrationType)
	return &integration, nil
}

// DisconnectIntegration clears credentials and marks the source disconnected
func DisconnectIntegration(ctx context.Context, integrationType string) (*models.Integration, error) {
	collection := database.Collection("integrations")

	update := bson.M{
		"$set": bson.M{
			"connected":  false,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{"credentials": 1},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var integration models.Integration
	err := collection.FindOneAndUpdate(ctx, bson.M{"type": integrationType}, update, opts).Decode(&integration)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Error("Failed to disconnect integration", "type", integrationType, "error", err)
		return nil, err
	}

	slog.Info("Integration disconnected", "type", integrationType)
	return &integration, nil
}

// RecordIntegrationSync bumps the import counter and stamps the sync result
func RecordIntegrationSync(ctx context.Context, integrationType string, imported int64, syncErr error) {
	collection := database.Collection("integrations")

	now := time.Now()
	fields := bson.M{
		"last_sync_at": now,
		"updated_at":   now,
	}
	if syncErr != nil {
		fields["last_error"] = syncErr.Error()
	} else {
		fields["last_error"] = ""
	}

	update := bson.M{
		"$set": fields,
		"$inc": bson.M{"total_leads_imported": imported},
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"type": integrationType}, update); err != nil {
		slog.Error("Failed to record integration sync",
			"type", integrationType,
			"error", err)
	}
}
