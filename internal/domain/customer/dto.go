// internal/domain/customer/dto.go
package customer

import (
	"database/sql"
	"math"
	"strings"
	"time"

	xerrors "salespipe-service/internal/pkg/errors"
)

// DateLayout is the wire format for date-only fields (next_contact_date).
const DateLayout = "2006-01-02"

type CreateCustomerRequest struct {
	CompanyName     string   `json:"company_name" binding:"required,max=255"`
	ContactPerson   string   `json:"contact_person" binding:"required,max=255"`
	Email           string   `json:"email" binding:"omitempty,max=255"`
	Phone           string   `json:"phone" binding:"omitempty,max=50"`
	Address         string   `json:"address"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority"`
	NextAction      string   `json:"next_action"`
	NextContactDate string   `json:"next_contact_date"`
	Notes           string   `json:"notes"`
	EstimatedValue  *float64 `json:"estimated_value"`
	Probability     int      `json:"probability"`
}

// ToCustomer is the single validation boundary for new records. It applies
// the documented defaults for omitted status/priority and rejects any value
// outside the domain invariants.
func (r *CreateCustomerRequest) ToCustomer() (*Customer, error) {
	if strings.TrimSpace(r.CompanyName) == "" {
		return nil, xerrors.NewValidation("company_name", "required")
	}
	if strings.TrimSpace(r.ContactPerson) == "" {
		return nil, xerrors.NewValidation("contact_person", "required")
	}

	status := DefaultStatus
	if r.Status != "" {
		parsed, err := ParseStatus(r.Status)
		if err != nil {
			return nil, xerrors.NewValidation("status", err.Error())
		}
		status = parsed
	}

	priority := DefaultPriority
	if r.Priority != "" {
		parsed, err := ParsePriority(r.Priority)
		if err != nil {
			return nil, xerrors.NewValidation("priority", err.Error())
		}
		priority = parsed
	}

	if r.Probability < 0 || r.Probability > 100 {
		return nil, xerrors.NewValidation("probability", "must be between 0 and 100")
	}

	var estimated sql.NullFloat64
	if r.EstimatedValue != nil {
		if *r.EstimatedValue < 0 {
			return nil, xerrors.NewValidation("estimated_value", "must not be negative")
		}
		estimated = sql.NullFloat64{Float64: *r.EstimatedValue, Valid: true}
	}

	var nextContact sql.NullTime
	if r.NextContactDate != "" {
		t, err := time.Parse(DateLayout, r.NextContactDate)
		if err != nil {
			return nil, xerrors.NewValidation("next_contact_date", "must be YYYY-MM-DD")
		}
		nextContact = sql.NullTime{Time: t, Valid: true}
	}

	return &Customer{
		CompanyName:     strings.TrimSpace(r.CompanyName),
		ContactPerson:   strings.TrimSpace(r.ContactPerson),
		Email:           nullString(r.Email),
		Phone:           nullString(r.Phone),
		Address:         nullString(r.Address),
		Status:          status,
		Priority:        priority,
		NextAction:      nullString(r.NextAction),
		NextContactDate: nextContact,
		Notes:           nullString(r.Notes),
		EstimatedValue:  estimated,
		Probability:     r.Probability,
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type UpdateCustomerRequest struct {
	CompanyName     *string  `json:"company_name" binding:"omitempty,max=255"`
	ContactPerson   *string  `json:"contact_person" binding:"omitempty,max=255"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Address         *string  `json:"address"`
	Status          *string  `json:"status"`
	Priority        *string  `json:"priority"`
	NextAction      *string  `json:"next_action"`
	NextContactDate *string  `json:"next_contact_date"`
	Notes           *string  `json:"notes"`
	EstimatedValue  *float64 `json:"estimated_value"`
	Probability     *int     `json:"probability"`
}

// ApplyTo overwrites the provided fields on an existing record, enforcing
// the same invariants as creation. Fields left nil are untouched.
func (r *UpdateCustomerRequest) ApplyTo(c *Customer) error {
	if r.CompanyName != nil {
		if strings.TrimSpace(*r.CompanyName) == "" {
			return xerrors.NewValidation("company_name", "must not be empty")
		}
		c.CompanyName = strings.TrimSpace(*r.CompanyName)
	}
	if r.ContactPerson != nil {
		if strings.TrimSpace(*r.ContactPerson) == "" {
			return xerrors.NewValidation("contact_person", "must not be empty")
		}
		c.ContactPerson = strings.TrimSpace(*r.ContactPerson)
	}
	if r.Email != nil {
		c.Email = nullString(*r.Email)
	}
	if r.Phone != nil {
		c.Phone = nullString(*r.Phone)
	}
	if r.Address != nil {
		c.Address = nullString(*r.Address)
	}
	if r.Status != nil {
		parsed, err := ParseStatus(*r.Status)
		if err != nil {
			return xerrors.NewValidation("status", err.Error())
		}
		c.Status = parsed
	}
	if r.Priority != nil {
		parsed, err := ParsePriority(*r.Priority)
		if err != nil {
			return xerrors.NewValidation("priority", err.Error())
		}
		c.Priority = parsed
	}
	if r.NextAction != nil {
		c.NextAction = nullString(*r.NextAction)
	}
	if r.NextContactDate != nil {
		if *r.NextContactDate == "" {
			c.NextContactDate = sql.NullTime{}
		} else {
			t, err := time.Parse(DateLayout, *r.NextContactDate)
			if err != nil {
				return xerrors.NewValidation("next_contact_date", "must be YYYY-MM-DD")
			}
			c.NextContactDate = sql.NullTime{Time: t, Valid: true}
		}
	}
	if r.Notes != nil {
		c.Notes = nullString(*r.Notes)
	}
	if r.EstimatedValue != nil {
		if *r.EstimatedValue < 0 {
			return xerrors.NewValidation("estimated_value", "must not be negative")
		}
		c.EstimatedValue = sql.NullFloat64{Float64: *r.EstimatedValue, Valid: true}
	}
	if r.Probability != nil {
		if *r.Probability < 0 || *r.Probability > 100 {
			return xerrors.NewValidation("probability", "must be between 0 and 100")
		}
		c.Probability = *r.Probability
	}
	return nil
}

// FilterCriteria is the search/filter input evaluated by the store and by
// pipeline.Matches. Empty fields mean "no constraint". The date range only
// applies when DateField names a date attribute.
type FilterCriteria struct {
	Search    string `json:"search" form:"search"`
	Status    string `json:"status" form:"status"`
	Priority  string `json:"priority" form:"priority"`
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	DateField string `json:"date_field" form:"date_field"` // next_contact_date or created_at

	SortBy    string `json:"sort_by" form:"sort_by"`
	SortOrder string `json:"sort_order" form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type CustomerListResponse struct {
	Customers []Customer `json:"customers"`
	Total     int        `json:"total"`
}

// Metrics are the derived pipeline statistics for a record snapshot. Rates
// are kept at full precision; use DisplayPercent for rounded display.
type Metrics struct {
	TotalCount          int     `json:"total_count"`
	ActiveDealCount     int     `json:"active_deal_count"`
	WonCount            int     `json:"won_count"`
	ConversionRate      float64 `json:"conversion_rate"`
	HighPriorityRate    float64 `json:"high_priority_rate"`
	TotalEstimatedValue float64 `json:"total_estimated_value"`
}

// DisplayPercent converts a 0..1 rate to a whole percentage using
// round-half-up.
func DisplayPercent(rate float64) int {
	return int(math.Floor(rate*100 + 0.5))
}
