package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IntegrationType identifies an external lead source
type IntegrationType string

const (
	IntegrationGoogleSheets IntegrationType = "google_sheets"
	IntegrationMetaAds      IntegrationType = "meta_ads"
	IntegrationWhatsApp     IntegrationType = "whatsapp"
)

// IntegrationConfig holds the per-type connection settings
type IntegrationConfig struct {
	SheetURL      string `bson:"sheet_url,omitempty" json:"sheet_url,omitempty"`
	PageID        string `bson:"page_id,omitempty" json:"page_id,omitempty"`
	FormID        string `bson:"form_id,omitempty" json:"form_id,omitempty"`
	PhoneNumberID string `bson:"phone_number_id,omitempty" json:"phone_number_id,omitempty"`
}

// Integration is one document per external system type holding connection
// status, credentials, config, and running import counters
type Integration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      IntegrationType    `bson:"type" json:"type"`
	Connected bool               `bson:"connected" json:"connected"`

	// Opaque credential blob (access token, API key). Never serialized.
	Credentials string `bson:"credentials,omitempty" json:"-"`

	Config IntegrationConfig `bson:"config" json:"config"`

	TotalLeadsImported int64      `bson:"total_leads_imported" json:"total_leads_imported"`
	LastSyncAt         *time.Time `bson:"last_sync_at,omitempty" json:"last_sync_at,omitempty"`
	LastError          string     `bson:"last_error,omitempty" json:"last_error,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidIntegrationType checks whether a type string is a known source
func IsValidIntegrationType(t string) bool {
	switch IntegrationType(t) {
	case IntegrationGoogleSheets, IntegrationMetaAds, IntegrationWhatsApp:
		return true
	}
	return false
}
