// internal/domain/activity/entity.go
package activity

import (
	"fmt"
	"time"
)

// Type classifies a contact activity.
type Type string

const (
	TypeCall   Type = "call"
	TypeVisit  Type = "visit"
	TypeEmail  Type = "email"
	TypeUpdate Type = "update"
	TypeOther  Type = "other"
)

// ParseType validates a raw activity type value.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeCall, TypeVisit, TypeEmail, TypeUpdate, TypeOther:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

// SystemActor labels activities the service writes on its own behalf, such
// as the update log entry appended after every customer update.
const SystemActor = "system"

// Activity is an append-only log entry attached to exactly one customer.
// Activities are never edited or deleted.
type Activity struct {
	ID           string    `json:"id" db:"id"`
	CustomerID   string    `json:"customer_id" db:"customer_id"`
	ActivityType Type      `json:"activity_type" db:"activity_type"`
	Description  string    `json:"description" db:"description"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
