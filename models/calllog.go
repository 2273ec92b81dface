package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CallOutcome represents how a call ended
type CallOutcome string

const (
	CallConnected         CallOutcome = "connected"
	CallNoAnswer          CallOutcome = "no_answer"
	CallBusy              CallOutcome = "busy"
	CallWrongNumber       CallOutcome = "wrong_number"
	CallCallbackRequested CallOutcome = "callback_requested"
)

// CallLog is an append-only record of a call made or received by a caller
type CallLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeadID          string             `bson:"lead_id" json:"lead_id"`
	CallerID        string             `bson:"caller_id" json:"caller_id"`
	Direction       string             `bson:"direction" json:"direction"` // "outbound" or "inbound"
	DurationSeconds int                `bson:"duration_seconds" json:"duration_seconds"`
	Outcome         CallOutcome        `bson:"outcome" json:"outcome"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
