package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// MongoDB configuration
	MongoURI     string
	DatabaseName string

	// Webhook configuration
	VerifyToken string

	// Server configuration
	Port        string
	AppEnv      string
	CORSOrigins string

	// Background jobs
	SheetsPollInterval time.Duration
}

func LoadConfig() *Config {
	cfg := &Config{
		MongoURI:           getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:       getEnv("MONGO_DB_NAME", "estate_crm"),
		VerifyToken:        getEnv("WEBHOOK_VERIFY_TOKEN", "webhook_verify_token"),
		Port:               getEnv("PORT", "8080"),
		AppEnv:             getEnv("APP_ENV", "development"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000"),
		SheetsPollInterval: getEnvDuration("SHEETS_POLL_INTERVAL", 15*time.Minute),
	}

	// Validate required configuration
	if cfg.MongoURI == "" {
		slog.Error("MONGODB_URI not set")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are treated as minutes
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Minute
	}
	slog.Warn("Invalid duration value, using default", "key", key, "value", value)
	return defaultValue
}
