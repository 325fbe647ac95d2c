// internal/pipeline/filter_test.go
package pipeline

import (
	"database/sql"
	"testing"
	"time"

	"salespipe-service/internal/domain/customer"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(customer.DateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func sampleRecords(t *testing.T) []customer.Customer {
	t.Helper()
	return []customer.Customer{
		{
			ID:            "c1",
			CompanyName:   "Acme Corp",
			ContactPerson: "Jane Doe",
			Email:         sql.NullString{String: "jane@acme.example", Valid: true},
			Status:        customer.StatusLead,
			Priority:      customer.PriorityMedium,
			NextContactDate: sql.NullTime{
				Time: mustDate(t, "2025-06-10"), Valid: true,
			},
			CreatedAt: mustDate(t, "2025-06-01"),
		},
		{
			ID:            "c2",
			CompanyName:   "Globex",
			ContactPerson: "Hank Scorpio",
			Status:        customer.StatusNegotiating,
			Priority:      customer.PriorityHigh,
			CreatedAt:     mustDate(t, "2025-06-05"),
		},
		{
			ID:            "c3",
			CompanyName:   "Initech",
			ContactPerson: "Bill Lumbergh",
			Email:         sql.NullString{String: "bill@initech.example", Valid: true},
			Status:        customer.StatusWon,
			Priority:      customer.PriorityLow,
			NextContactDate: sql.NullTime{
				Time: mustDate(t, "2025-07-01"), Valid: true,
			},
			CreatedAt: mustDate(t, "2025-06-20"),
		},
	}
}

func matchedIDs(records []customer.Customer) []string {
	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	return ids
}

func assertIDs(t *testing.T, got []customer.Customer, want ...string) {
	t.Helper()
	gotIDs := matchedIDs(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestFilterEmptyCriteriaMatchesAll(t *testing.T) {
	records := sampleRecords(t)

	assertIDs(t, Filter(records, &customer.FilterCriteria{}), "c1", "c2", "c3")
	assertIDs(t, Filter(records, nil), "c1", "c2", "c3")
}

func TestFilterSearch(t *testing.T) {
	records := sampleRecords(t)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"company substring", "acme", []string{"c1"}},
		{"case insensitive", "GLOBEX", []string{"c2"}},
		{"contact person", "lumbergh", []string{"c3"}},
		{"email", "jane@", []string{"c1"}},
		{"no match", "umbrella", nil},
		{"shared substring", "e", []string{"c1", "c2", "c3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, &customer.FilterCriteria{Search: tt.search})
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestFilterStatusAndPriority(t *testing.T) {
	records := sampleRecords(t)

	got := Filter(records, &customer.FilterCriteria{Status: "negotiating"})
	assertIDs(t, got, "c2")

	got = Filter(records, &customer.FilterCriteria{Priority: "low"})
	assertIDs(t, got, "c3")

	// Criteria combine with AND.
	got = Filter(records, &customer.FilterCriteria{Status: "won", Priority: "high"})
	assertIDs(t, got)
}

func TestFilterDateRange(t *testing.T) {
	records := sampleRecords(t)

	tests := []struct {
		name     string
		criteria customer.FilterCriteria
		want     []string
	}{
		{
			"created_at window",
			customer.FilterCriteria{DateField: "created_at", StartDate: "2025-06-02", EndDate: "2025-06-19"},
			[]string{"c2"},
		},
		{
			"end bound is inclusive",
			customer.FilterCriteria{DateField: "created_at", EndDate: "2025-06-05"},
			[]string{"c1", "c2"},
		},
		{
			"absent next_contact_date never matches an active range",
			customer.FilterCriteria{DateField: "next_contact_date", StartDate: "2025-01-01"},
			[]string{"c1", "c3"},
		},
		{
			"range ignored without a date field",
			customer.FilterCriteria{StartDate: "2025-06-02", EndDate: "2025-06-19"},
			[]string{"c1", "c2", "c3"},
		},
		{
			"malformed bounds are treated as unset",
			customer.FilterCriteria{DateField: "created_at", StartDate: "06/02/2025", EndDate: "not-a-date"},
			[]string{"c1", "c2", "c3"},
		},
		{
			"start only",
			customer.FilterCriteria{DateField: "created_at", StartDate: "2025-06-10"},
			[]string{"c3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, &tt.criteria)
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := sampleRecords(t)
	before := matchedIDs(records)

	Filter(records, &customer.FilterCriteria{Search: "acme"})

	after := matchedIDs(records)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input slice reordered: %v -> %v", before, after)
		}
	}
}
