package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"MONGODB_URI", "MONGO_DB_NAME", "PORT", "SHEETS_POLL_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "estate_crm", cfg.DatabaseName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.SheetsPollInterval)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ESTATE_CRM_TEST_KEY", "custom")
	assert.Equal(t, "custom", getEnv("ESTATE_CRM_TEST_KEY", "default"))
	assert.Equal(t, "default", getEnv("ESTATE_CRM_TEST_MISSING", "default"))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("ESTATE_CRM_TEST_DUR", "30s")
	assert.Equal(t, 30*time.Second, getEnvDuration("ESTATE_CRM_TEST_DUR", time.Minute))

	t.Setenv("ESTATE_CRM_TEST_DUR", "5")
	assert.Equal(t, 5*time.Minute, getEnvDuration("ESTATE_CRM_TEST_DUR", time.Minute))

	t.Setenv("ESTATE_CRM_TEST_DUR", "garbage")
	assert.Equal(t, time.Minute, getEnvDuration("ESTATE_CRM_TEST_DUR", time.Minute))

	assert.Equal(t, time.Hour, getEnvDuration("ESTATE_CRM_TEST_DUR_MISSING", time.Hour))
}
