package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"estate-crm/models"
)

const (
	SessionDuration   = 24 * time.Hour
	SessionCookieName = "session"
)

// GenerateSessionID generates a secure random session ID
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession creates a new session in the database
func CreateSession(ctx context.Context, callerID, username, email, role, ipAddress, userAgent string) (*models.Session, error) {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		ID:           primitive.NewObjectID(),
		SessionID:    sessionID,
		CallerID:     callerID,
		Username:     username,
		Email:        email,
		Role:         role,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		CreatedAt:    now,
		LastAccessed: now,
		ExpiresAt:    now.Add(SessionDuration),
		IsActive:     true,
	}

	collection := GetDatabase().Collection("sessions")
	_, err = collection.InsertOne(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSessionByID retrieves a session from the database by session ID
func GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	collection := GetDatabase().Collection("sessions")

	var session models.Session
	err := collection.FindOne(ctx, bson.M{
		"session_id": sessionID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&session)

	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// ExtendSession updates last access time and pushes out the expiry
func ExtendSession(ctx context.Context, sessionID string) error {
	collection := GetDatabase().Collection("sessions")

	now := time.Now()
	_, err := collection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"last_accessed": now,
			"expires_at":    now.Add(SessionDuration),
		}},
	)
	return err
}

// DestroySession deactivates a session
func DestroySession(ctx context.Context, sessionID string) error {
	collection := GetDatabase().Collection("sessions")

	_, err := collection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	return err
}

// CleanupExpiredSessions deletes sessions past their expiry
func CleanupExpiredSessions(ctx context.Context) (int64, error) {
	collection := GetDatabase().Collection("sessions")

	result, err := collection.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
