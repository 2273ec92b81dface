package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"estate-crm/models"
)

func testCaller(name, status string, lastAssigned *time.Time) models.Caller {
	return models.Caller{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Status:         status,
		LastAssignedAt: lastAssigned,
	}
}

func TestPickLeastRecentlyAssigned(t *testing.T) {
	older := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	callers := []models.Caller{
		testCaller("recently assigned", "active", &newer),
		testCaller("assigned long ago", "active", &older),
	}

	pick := PickLeastRecentlyAssigned(callers)
	require.NotNil(t, pick)
	assert.Equal(t, "assigned long ago", pick.Name)
}

func TestPickLeastRecentlyAssignedPrefersNeverAssigned(t *testing.T) {
	assigned := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	callers := []models.Caller{
		testCaller("assigned", "active", &assigned),
		testCaller("fresh", "active", nil),
	}

	pick := PickLeastRecentlyAssigned(callers)
	require.NotNil(t, pick)
	assert.Equal(t, "fresh", pick.Name)
}

func TestPickLeastRecentlyAssignedSkipsInactive(t *testing.T) {
	callers := []models.Caller{
		testCaller("inactive fresh", "inactive", nil),
		testCaller("active", "active", nil),
	}

	pick := PickLeastRecentlyAssigned(callers)
	require.NotNil(t, pick)
	assert.Equal(t, "active", pick.Name)
}

func TestPickLeastRecentlyAssignedNoCandidates(t *testing.T) {
	assert.Nil(t, PickLeastRecentlyAssigned(nil))

	callers := []models.Caller{
		testCaller("inactive", "inactive", nil),
	}
	assert.Nil(t, PickLeastRecentlyAssigned(callers))
}
