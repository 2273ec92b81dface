package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowUpStatus represents the lifecycle state of a follow-up
type FollowUpStatus string

const (
	FollowUpPending   FollowUpStatus = "pending"
	FollowUpCompleted FollowUpStatus = "completed"
	FollowUpMissed    FollowUpStatus = "missed"
	FollowUpCancelled FollowUpStatus = "cancelled"
)

// FollowUpReason categorizes why the follow-up was scheduled
type FollowUpReason string

const (
	ReasonInitialContact     FollowUpReason = "initial_contact"
	ReasonNegotiation        FollowUpReason = "negotiation"
	ReasonDocumentCollection FollowUpReason = "document_collection"
	ReasonSiteVisit          FollowUpReason = "site_visit"
	ReasonPaymentDiscussion  FollowUpReason = "payment_discussion"
	ReasonOther              FollowUpReason = "other"
)

// FollowUpType is the contact channel for the follow-up
type FollowUpType string

const (
	FollowUpCall     FollowUpType = "call"
	FollowUpEmail    FollowUpType = "email"
	FollowUpSMS      FollowUpType = "sms"
	FollowUpWhatsApp FollowUpType = "whatsapp"
)

// FollowUp represents a scheduled future contact action tied to a lead
type FollowUp struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeadID       string             `bson:"lead_id" json:"lead_id"`
	ScheduledFor time.Time          `bson:"scheduled_for" json:"scheduled_for"`
	Reason       FollowUpReason     `bson:"reason" json:"reason"`
	Status       FollowUpStatus     `bson:"status" json:"status"`
	Type         FollowUpType       `bson:"type" json:"type"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Outcome      string             `bson:"outcome,omitempty" json:"outcome,omitempty"`
	ReminderSent bool               `bson:"reminder_sent" json:"reminder_sent"`
	CompletedAt  *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// ApplyDefaults fills omitted fields with the schema defaults
func (f *FollowUp) ApplyDefaults() {
	if f.Status == "" {
		f.Status = FollowUpPending
	}
	if f.Type == "" {
		f.Type = FollowUpCall
	}
	if f.Reason == "" {
		f.Reason = ReasonOther
	}
}
