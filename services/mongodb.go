package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoClient *mongo.Client
	database    *mongo.Database
)

// GetDatabase returns the MongoDB database instance
func GetDatabase() *mongo.Database {
	return database
}

// InitMongoDB initializes MongoDB connection
func InitMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("Connected to MongoDB")
	mongoClient = client

	return client, nil
}

// InitServices initializes all services
func InitServices(client *mongo.Client, databaseName string) {
	database = client.Database(databaseName)

	// Create indexes
	createIndexes()
}

// PingDatabase reports whether the database is reachable
func PingDatabase(ctx context.Context) error {
	return mongoClient.Ping(ctx, nil)
}

// createIndexes creates necessary database indexes
func createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	leadsCollection := database.Collection("leads")
	leadsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"normalized_phone": 1}},
		{Keys: bson.M{"stage": 1}},
		{Keys: bson.M{"assigned_caller": 1}},
		{Keys: bson.M{"assigned_broker": 1}},
		{Keys: bson.M{"source": 1}},
		{Keys: bson.M{"created_at": -1}},
	})

	callersCollection := database.Collection("callers")
	callersCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"username": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true)},
	})

	followupsCollection := database.Collection("followups")
	followupsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"lead_id": 1}},
		{Keys: bson.M{"scheduled_for": 1}},
		{Keys: bson.M{"status": 1}},
	})

	callLogsCollection := database.Collection("call_logs")
	callLogsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"caller_id": 1}},
		{Keys: bson.M{"lead_id": 1}},
		{Keys: bson.M{"created_at": -1}},
	})

	activitiesCollection := database.Collection("activities")
	activitiesCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"lead_id": 1}},
		{Keys: bson.M{"created_at": -1}},
	})

	integrationsCollection := database.Collection("integrations")
	integrationsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"type": 1},
		Options: options.Index().SetUnique(true),
	})

	sessionsCollection := database.Collection("sessions")
	sessionsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"session_id": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"expires_at": 1}},
	})
}
