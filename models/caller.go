package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CallerRole represents the role of a caller account
type CallerRole string

const (
	RoleCaller CallerRole = "caller"
	RoleAdmin  CallerRole = "admin"
)

// Caller represents a sales agent or admin user who works leads
type Caller struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// Authentication
	PasswordHash string `bson:"password_hash" json:"-"`

	Role   CallerRole `bson:"role" json:"role"`
	Status string     `bson:"status" json:"status"` // "active" or "inactive"

	// Used by round-robin auto-assignment
	LastAssignedAt *time.Time `bson:"last_assigned_at,omitempty" json:"last_assigned_at,omitempty"`

	LastLogin time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidCallerRole checks if a role is valid
func IsValidCallerRole(role string) bool {
	switch CallerRole(role) {
	case RoleCaller, RoleAdmin:
		return true
	}
	return false
}
