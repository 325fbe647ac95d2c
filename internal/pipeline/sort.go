// internal/pipeline/sort.go
package pipeline

import (
	"sort"
	"strings"
	"time"

	"salespipe-service/internal/domain/customer"
)

// Direction orders a sort ascending or descending. Descending uses the
// exact reverse of the ascending comparator, so the two orders mirror each
// other whenever no keys tie.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection normalizes a raw direction, defaulting to ascending.
func ParseDirection(s string) Direction {
	if s == string(Descending) {
		return Descending
	}
	return Ascending
}

// Sort returns a new slice ordered by the given field. The comparison is
// type-aware: date fields treat an absent value as the earliest instant,
// numeric fields treat absent or unparseable values as 0, and every other
// field compares case-insensitively. The sort is stable, so records with
// equal keys keep their input order.
func Sort(records []customer.Customer, field string, dir Direction) []customer.Customer {
	out := make([]customer.Customer, len(records))
	copy(out, records)

	cmp := comparatorFor(field)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return cmp(&out[j], &out[i]) < 0
		}
		return cmp(&out[i], &out[j]) < 0
	})
	return out
}

func comparatorFor(field string) func(a, b *customer.Customer) int {
	switch field {
	case "next_contact_date", "created_at":
		return func(a, b *customer.Customer) int {
			return dateKey(a, field).Compare(dateKey(b, field))
		}
	case "estimated_value", "probability":
		return func(a, b *customer.Customer) int {
			av, bv := numericKey(a, field), numericKey(b, field)
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return func(a, b *customer.Customer) int {
		return strings.Compare(
			strings.ToLower(textKey(a, field)),
			strings.ToLower(textKey(b, field)),
		)
	}
}

func dateKey(c *customer.Customer, field string) time.Time {
	if v, ok := dateValue(c, field); ok {
		return v
	}
	// Zero time: absent dates sort first ascending.
	return time.Time{}
}

func numericKey(c *customer.Customer, field string) float64 {
	switch field {
	case "estimated_value":
		return c.EstimatedValueOrZero()
	case "probability":
		return float64(c.Probability)
	}
	return 0
}

func textKey(c *customer.Customer, field string) string {
	switch field {
	case "company_name":
		return c.CompanyName
	case "contact_person":
		return c.ContactPerson
	case "email":
		return c.Email.String
	case "phone":
		return c.Phone.String
	case "address":
		return c.Address.String
	case "status":
		return string(c.Status)
	case "priority":
		return string(c.Priority)
	case "next_action":
		return c.NextAction.String
	case "notes":
		return c.Notes.String
	}
	// Unknown fields compare equal; stability preserves input order.
	return ""
}
