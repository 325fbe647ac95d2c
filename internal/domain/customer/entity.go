// internal/domain/customer/entity.go
package customer

import (
	"database/sql"
	"fmt"
	"time"
)

// Status is the pipeline stage of a customer. Stored values are always one
// of the enumerated constants; anything else is rejected at the boundary.
type Status string

const (
	StatusLead        Status = "lead"
	StatusApproach    Status = "approach"
	StatusNegotiating Status = "negotiating"
	StatusWon         Status = "won"
	StatusLost        Status = "lost"
)

// DefaultStatus is applied when a creation request omits the status.
const DefaultStatus = StatusLead

// ParseStatus validates a raw status value. Empty input is not a valid
// status; callers that want the default must apply it explicitly.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusLead, StatusApproach, StatusNegotiating, StatusWon, StatusLost:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Priority is the sales priority of a customer.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority is applied when a creation request omits the priority.
const DefaultPriority = PriorityMedium

// ParsePriority validates a raw priority value.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Customer is the central pipeline record. The store owns the canonical
// copy; the engine operates on snapshots and never mutates one in place.
type Customer struct {
	ID            string `json:"id" db:"id"`
	CompanyName   string `json:"company_name" db:"company_name"`
	ContactPerson string `json:"contact_person" db:"contact_person"`

	Email   sql.NullString `json:"email" db:"email"`
	Phone   sql.NullString `json:"phone" db:"phone"`
	Address sql.NullString `json:"address" db:"address"`

	Status   Status   `json:"status" db:"status"`
	Priority Priority `json:"priority" db:"priority"`

	NextAction      sql.NullString  `json:"next_action" db:"next_action"`
	NextContactDate sql.NullTime    `json:"next_contact_date" db:"next_contact_date"`
	Notes           sql.NullString  `json:"notes" db:"notes"`
	EstimatedValue  sql.NullFloat64 `json:"estimated_value" db:"estimated_value"`
	Probability     int             `json:"probability" db:"probability"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EstimatedValueOrZero returns the monetary estimate, treating an absent
// value as 0 for sorting and aggregation.
func (c *Customer) EstimatedValueOrZero() float64 {
	if c.EstimatedValue.Valid {
		return c.EstimatedValue.Float64
	}
	return 0
}
