package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings is a singleton document with company-wide configuration
type Settings struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName string             `bson:"company_name,omitempty" json:"company_name,omitempty"`
	Timezone    string             `bson:"timezone,omitempty" json:"timezone,omitempty"`

	// Lead handling
	AutoAssignEnabled   bool `bson:"auto_assign_enabled" json:"auto_assign_enabled"`
	ReminderWindowHours int  `bson:"reminder_window_hours" json:"reminder_window_hours"`

	// Working hours, 24h clock
	WorkdayStartHour int `bson:"workday_start_hour" json:"workday_start_hour"`
	WorkdayEndHour   int `bson:"workday_end_hour" json:"workday_end_hour"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultSettings returns the settings document created on first access
func DefaultSettings() *Settings {
	return &Settings{
		Timezone:            "UTC",
		AutoAssignEnabled:   true,
		ReminderWindowHours: 24,
		WorkdayStartHour:    9,
		WorkdayEndHour:      18,
		UpdatedAt:           time.Now(),
	}
}
