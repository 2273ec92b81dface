package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingStatus represents the state of a scheduled meeting
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
	MeetingNoShow    MeetingStatus = "no_show"
)

// Meeting represents a scheduled appointment with a lead.
// LeadID and CallerID are loose string references, not enforced ObjectIDs.
type Meeting struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeadID          string             `bson:"lead_id,omitempty" json:"lead_id,omitempty"`
	CallerID        string             `bson:"caller_id,omitempty" json:"caller_id,omitempty"`
	Title           string             `bson:"title" json:"title"`
	Location        string             `bson:"location,omitempty" json:"location,omitempty"`
	ScheduledAt     time.Time          `bson:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes"`
	Status          MeetingStatus      `bson:"status" json:"status"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// ApplyDefaults fills omitted fields with the schema defaults
func (m *Meeting) ApplyDefaults() {
	if m.Status == "" {
		m.Status = MeetingScheduled
	}
	if m.DurationMinutes <= 0 {
		m.DurationMinutes = 30
	}
}
