package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStage represents the pipeline position of a lead
type LeadStage string

const (
	StageNew         LeadStage = "new"
	StageQualified   LeadStage = "qualified"
	StageProposal    LeadStage = "proposal"
	StageNegotiation LeadStage = "negotiation"
	StageWon         LeadStage = "won"
	StageLost        LeadStage = "lost"
)

// LeadPriority represents how hot a lead is
type LeadPriority string

const (
	PriorityHot  LeadPriority = "hot"
	PriorityWarm LeadPriority = "warm"
	PriorityCold LeadPriority = "cold"
)

// LeadSource identifies where a lead came from
type LeadSource string

const (
	SourceManual       LeadSource = "manual"
	SourceImport       LeadSource = "import"
	SourceGoogleSheets LeadSource = "google_sheets"
	SourceMetaAds      LeadSource = "meta_ads"
	SourceWhatsApp     LeadSource = "whatsapp"
	SourceWebsite      LeadSource = "website"
	SourceReferral     LeadSource = "referral"
)

// Lead represents a prospective customer tracked through the sales pipeline
type Lead struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Phone           string             `bson:"phone" json:"phone"`
	NormalizedPhone string             `bson:"normalized_phone,omitempty" json:"normalized_phone,omitempty"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	City            string             `bson:"city,omitempty" json:"city,omitempty"`
	Value           float64            `bson:"value,omitempty" json:"value,omitempty"`
	Source          LeadSource         `bson:"source" json:"source"`
	Stage           LeadStage          `bson:"stage" json:"stage"`
	Priority        LeadPriority       `bson:"priority" json:"priority"`
	Status          string             `bson:"status" json:"status"` // "active" or "archived"

	// Soft references, hex ObjectIDs stored as strings
	AssignedCaller string `bson:"assigned_caller,omitempty" json:"assigned_caller,omitempty"`
	AssignedBroker string `bson:"assigned_broker,omitempty" json:"assigned_broker,omitempty"`

	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"` // append-only
	NextFollowUp  *time.Time `bson:"next_follow_up,omitempty" json:"next_follow_up,omitempty"`
	ImportBatchID string     `bson:"import_batch_id,omitempty" json:"import_batch_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ApplyDefaults fills the fields the source schema defaults when omitted
func (l *Lead) ApplyDefaults() {
	if l.Source == "" {
		l.Source = SourceManual
	}
	if l.Stage == "" {
		l.Stage = StageNew
	}
	if l.Priority == "" {
		l.Priority = PriorityWarm
	}
	if l.Status == "" {
		l.Status = "active"
	}
}

// IsValidStage checks if a stage value is one of the pipeline stages
func IsValidStage(stage string) bool {
	switch LeadStage(stage) {
	case StageNew, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost:
		return true
	}
	return false
}

// IsValidPriority checks if a priority value is valid
func IsValidPriority(priority string) bool {
	switch LeadPriority(priority) {
	case PriorityHot, PriorityWarm, PriorityCold:
		return true
	}
	return false
}
