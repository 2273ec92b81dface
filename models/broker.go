package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Broker represents an external intermediary optionally associated with leads.
// AssignedLeads is a denormalized back-reference; the lead side
// (Lead.AssignedBroker) is the authoritative one.
type Broker struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone                string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Company              string             `bson:"company,omitempty" json:"company,omitempty"`
	CommissionPercentage float64            `bson:"commission_percentage" json:"commission_percentage"`
	Status               string             `bson:"status" json:"status"` // "active" or "inactive"
	AssignedLeads        []string           `bson:"assigned_leads,omitempty" json:"assigned_leads,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}
