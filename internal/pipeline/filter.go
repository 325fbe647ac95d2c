// internal/pipeline/filter.go
package pipeline

import (
	"strings"
	"time"

	"salespipe-service/internal/domain/customer"
)

// Matches reports whether a record satisfies the criteria. All active
// criteria combine with logical AND; empty criteria match every record.
// Pure predicate, no side effects.
func Matches(c *customer.Customer, f *customer.FilterCriteria) bool {
	if f == nil {
		return true
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.CompanyName), needle) &&
			!strings.Contains(strings.ToLower(c.ContactPerson), needle) &&
			!strings.Contains(strings.ToLower(c.Email.String), needle) {
			return false
		}
	}

	if f.Status != "" && string(c.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(c.Priority) != f.Priority {
		return false
	}

	if f.DateField != "" {
		start, startOK := parseDate(f.StartDate)
		end, endOK := parseDate(f.EndDate)
		if startOK || endOK {
			v, ok := dateValue(c, f.DateField)
			if !ok {
				// No value for the field never matches an active range.
				return false
			}
			if startOK && v.Before(start) {
				return false
			}
			// End bound is inclusive through the end of that day.
			if endOK && !v.Before(end.AddDate(0, 0, 1)) {
				return false
			}
		}
	}

	return true
}

// Filter returns the records matching the criteria as a new slice.
func Filter(records []customer.Customer, f *customer.FilterCriteria) []customer.Customer {
	out := make([]customer.Customer, 0, len(records))
	for i := range records {
		if Matches(&records[i], f) {
			out = append(out, records[i])
		}
	}
	return out
}

// parseDate normalizes a criteria bound; malformed input is treated as an
// unset bound rather than an error.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(customer.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateValue(c *customer.Customer, field string) (time.Time, bool) {
	switch field {
	case "next_contact_date":
		if !c.NextContactDate.Valid {
			return time.Time{}, false
		}
		return c.NextContactDate.Time, true
	case "created_at":
		return c.CreatedAt, true
	}
	return time.Time{}, false
}
