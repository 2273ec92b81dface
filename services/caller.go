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
	"golang.org/x/crypto/bcrypt"

	"estate-crm/models"
)

// CreateCaller inserts a new caller account with a hashed password
func CreateCaller(ctx context.Context, caller *models.Caller, password string) error {
	collection := database.Collection("callers")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	caller.PasswordHash = string(hash)

	if caller.Role == "" {
		caller.Role = models.RoleCaller
	}
	if caller.Status == "" {
		caller.Status = "active"
	}

	now := time.Now()
	caller.CreatedAt = now
	caller.UpdatedAt = now

	result, err := collection.InsertOne(ctx, caller)
	if err != nil {
		return fmt.Errorf("failed to insert caller: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		caller.ID = oid
	}

	slog.Info("Caller created", "callerID", caller.ID.Hex(), "username", caller.Username)
	return nil
}

// GetCaller retrieves a caller by hex id. Returns (nil, nil) when not found.
func GetCaller(ctx context.Context, id string) (*models.Caller, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("callers")

	var caller models.Caller
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&caller)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &caller, nil
}

// GetCallerByUsername retrieves a caller by username
func GetCallerByUsername(ctx context.Context, username string) (*models.Caller, error) {
	collection := database.Collection("callers")

	var caller models.Caller
	err := collection.FindOne(ctx, bson.M{"username": username}).Decode(&caller)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &caller, nil
}

// ListCallers retrieves callers with pagination
func ListCallers(ctx context.Context, status string, limit, skip int) ([]models.Caller, int64, error) {
	collection := database.Collection("callers")

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

	var callers []models.Caller
	if err := cursor.All(ctx, &callers); err != nil {
		return nil, 0, err
	}

	return callers, totalCount, nil
}

// UpdateCaller applies a partial update and returns the post-update document.
// A "password" field is hashed before storage.
func UpdateCaller(ctx context.Context, id string, fields bson.M) (*models.Caller, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("callers")

	if password, ok := fields["password"].(string); ok {
		delete(fields, "password")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password_hash"] = string(hash)
	}
	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var caller models.Caller
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&caller)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Error("Failed to update caller", "callerID", id, "error", err)
		return nil, err
	}

	return &caller, nil
}

// DeleteCaller removes a caller account. Leads referencing it keep the
// stale id (no cascade).
func DeleteCaller(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	collection := database.Collection("callers")

	result, err := collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

// VerifyCallerPassword compares a plaintext password against the stored hash
func VerifyCallerPassword(caller *models.Caller, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(caller.PasswordHash), []byte(password)) == nil
}

// UpdateCallerLastLogin stamps the last successful login time
func UpdateCallerLastLogin(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	collection := database.Collection("callers")
	_, err = collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"last_login": time.Now()},
	})
	return err
}
