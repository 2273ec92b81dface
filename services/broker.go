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

// CreateBroker inserts a new broker
func CreateBroker(ctx context.Context, broker *models.Broker) error {
	collection := database.Collection("brokers")

	if broker.Status == "" {
		broker.Status = "active"
	}

	now := time.Now()
	broker.CreatedAt = now
	broker.UpdatedAt = now

	result, err := collection.InsertOne(ctx, broker)
	if err != nil {
		return fmt.Errorf("failed to insert broker: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		broker.ID = oid
	}

	slog.Info("Broker created", "brokerID", broker.ID.Hex(), "name", broker.Name)
	return nil
}

// GetBroker retrieves a broker by hex id. Returns (nil, nil) when not found.
func GetBroker(ctx context.Context, id string) (*models.Broker, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("brokers")

	var broker models.Broker
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&broker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &broker, nil
}

// ListBrokers retrieves brokers with pagination
func ListBrokers(ctx context.Context, status string, limit, skip int) ([]models.Broker, int64, error) {
	collection := database.Collection("brokers")

	query := bson.M{}
	if status != "" {
		query["status"] = status
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

	var brokers []models.Broker
	if err := cursor.All(ctx, &brokers); err != nil {
		return nil, 0, err
	}

	return brokers, totalCount, nil
}

// UpdateBroker applies a partial update and returns the post-update document
func UpdateBroker(ctx context.Context, id string, fields bson.M) (*models.Broker, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("brokers")

	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var broker models.Broker
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&broker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Error("Failed to update broker", "brokerID", id, "error", err)
		return nil, err
	}

	return &broker, nil
}

// DeleteBroker removes a broker. Leads assigned to it are not touched
// (no cascade).
func DeleteBroker(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	collection := database.Collection("brokers")

	result, err := collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

// AssignLeadsToBroker overwrites the broker's denormalized assigned_leads
// array. The lead side is not updated here; Lead.AssignedBroker remains
// the authoritative reference.
func AssignLeadsToBroker(ctx context.Context, id string, leadIDs []string) (*models.Broker, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("brokers")

	update := bson.M{
		"$set": bson.M{
			"assigned_leads": leadIDs,
			"updated_at":     time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var broker models.Broker
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&broker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Error("Failed to assign leads to broker", "brokerID", id, "error", err)
		return nil, err
	}

	slog.Info("Leads assigned to broker", "brokerID", id, "count", len(leadIDs))
	return &broker, nil
}
