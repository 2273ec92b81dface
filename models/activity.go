package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType categorizes audit log entries
type ActivityType string

const (
	ActivityLeadCreated       ActivityType = "lead_created"
	ActivityLeadUpdated       ActivityType = "lead_updated"
	ActivityLeadAssigned      ActivityType = "lead_assigned"
	ActivityLeadMerged        ActivityType = "lead_merged"
	ActivityLeadImported      ActivityType = "lead_imported"
	ActivityNoteAdded         ActivityType = "note_added"
	ActivityFollowUpCreated   ActivityType = "followup_created"
	ActivityFollowUpCompleted ActivityType = "followup_completed"
	ActivityFollowUpCancelled ActivityType = "followup_cancelled"
	ActivityMeetingScheduled  ActivityType = "meeting_scheduled"
	ActivityMeetingUpdated    ActivityType = "meeting_updated"
	ActivityCallLogged        ActivityType = "call_logged"
)

// Activity is an append-only audit record describing a change to a lead
// or related entity. Written best-effort after the primary write.
type Activity struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	LeadID      string                 `bson:"lead_id,omitempty" json:"lead_id,omitempty"`
	Actor       string                 `bson:"actor,omitempty" json:"actor,omitempty"` // caller id or "system"
	Type        ActivityType           `bson:"type" json:"type"`
	Description string                 `bson:"description" json:"description"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
}
