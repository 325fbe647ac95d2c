// internal/importer/csv_test.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"salespipe-service/internal/domain/customer"
	xerrors "salespipe-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeCreator struct {
	created []customer.Customer
	failFor map[string]error // keyed by company_name
}

func (f *fakeCreator) CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	if err, ok := f.failFor[req.CompanyName]; ok {
		return nil, err
	}
	c, err := req.ToCustomer()
	if err != nil {
		return nil, err
	}
	c.ID = fmt.Sprintf("id-%d", len(f.created)+1)
	f.created = append(f.created, *c)
	return c, nil
}

func newTestImporter(creator *fakeCreator) *Importer {
	return New(creator, zap.NewNop())
}

func csvPayload(rows ...string) string {
	lines := append([]string{strings.Join(Header, ",")}, rows...)
	return strings.Join(lines, "\n")
}

func TestImportBatchCreatesRows(t *testing.T) {
	creator := &fakeCreator{}
	imp := newTestImporter(creator)

	payload := csvPayload(
		"Acme Corp,Jane Doe,jane@acme.example,03-1234-5678,Tokyo,lead,medium,Follow-up call,2025-07-01,First contact done,500000,30",
		"Globex,Hank Scorpio,,,,approach,high,,,,,",
	)

	report, err := imp.ImportBatch(context.Background(), payload, nil, Options{})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}

	if report.Created != 2 || report.FailedValidation != 0 {
		t.Fatalf("report = %+v, want 2 created", report)
	}
	if len(creator.created) != 2 {
		t.Fatalf("created %d records, want 2", len(creator.created))
	}

	first := creator.created[0]
	if first.CompanyName != "Acme Corp" || first.Status != customer.StatusLead {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if !first.EstimatedValue.Valid || first.EstimatedValue.Float64 != 500000 {
		t.Fatalf("estimated value not carried: %+v", first.EstimatedValue)
	}
	if first.Probability != 30 {
		t.Fatalf("probability = %d, want 30", first.Probability)
	}

	if report.Rows[0].Outcome != OutcomeCreated || report.Rows[0].CustomerID == "" {
		t.Fatalf("row result missing created outcome or id: %+v", report.Rows[0])
	}
}

func TestImportBatchRowIndependence(t *testing.T) {
	creator := &fakeCreator{}
	imp := newTestImporter(creator)

	// Valid, invalid (bad status), valid. The middle row must not poison
	// its neighbors.
	payload := csvPayload(
		"Acme Corp,Jane Doe,,,,lead,medium,,,,,",
		"Broken Inc,Bob,,,,not-a-status,medium,,,,,",
		"Globex,Hank Scorpio,,,,approach,high,,,,,",
	)

	report, err := imp.ImportBatch(context.Background(), payload, nil, Options{})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}

	if report.Created != 2 || report.FailedValidation != 1 {
		t.Fatalf("report = %+v, want 2 created and 1 failed", report)
	}
	if report.Rows[1].Outcome != OutcomeFailedValidation || report.Rows[1].Row != 2 {
		t.Fatalf("middle row result = %+v", report.Rows[1])
	}
}

func TestImportBatchValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"missing company_name", ",Jane Doe,,,,lead,medium,,,,,"},
		{"missing contact_person", "Acme Corp,,,,,lead,medium,,,,,"},
		{"probability above range", "Acme Corp,Jane Doe,,,,lead,medium,,,,,150"},
		{"probability below range", "Acme Corp,Jane Doe,,,,lead,medium,,,,,-5"},
		{"non-numeric estimated_value", "Acme Corp,Jane Doe,,,,lead,medium,,,,abc,"},
		{"bad date", "Acme Corp,Jane Doe,,,,lead,medium,,07/01/2025,,,"},
		{"column count mismatch", "Acme Corp,Jane Doe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &fakeCreator{}
			imp := newTestImporter(creator)

			report, err := imp.ImportBatch(context.Background(), csvPayload(tt.row), nil, Options{})
			if err != nil {
				t.Fatalf("ImportBatch: %v", err)
			}
			if report.Created != 0 || report.FailedValidation != 1 {
				t.Fatalf("report = %+v, want a single validation failure", report)
			}
			if len(creator.created) != 0 {
				t.Fatalf("invalid row was committed")
			}
		})
	}
}

func TestImportBatchBoundaryProbabilities(t *testing.T) {
	creator := &fakeCreator{}
	imp := newTestImporter(creator)

	payload := csvPayload(
		"Acme Corp,Jane Doe,,,,lead,medium,,,,,0",
		"Globex,Hank Scorpio,,,,lead,medium,,,,,100",
	)

	report, err := imp.ImportBatch(context.Background(), payload, nil, Options{})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("boundary probabilities rejected: %+v", report)
	}
}

func TestImportBatchSkipDuplicates(t *testing.T) {
	existing := []customer.Customer{
		{CompanyName: "Acme Corp", ContactPerson: "Jane Doe"},
	}

	payload := csvPayload(
		"ACME CORP,jane doe,,,,lead,medium,,,,,",    // duplicate of existing, case differs
		"Globex,Hank Scorpio,,,,approach,high,,,,,", // new
		"globex,HANK SCORPIO,,,,approach,high,,,,,", // duplicate of the accepted row above
	)

	creator := &fakeCreator{}
	imp := newTestImporter(creator)

	report, err := imp.ImportBatch(context.Background(), payload, existing, Options{SkipDuplicates: true})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}

	if report.Created != 1 || report.SkippedDuplicate != 2 {
		t.Fatalf("report = %+v, want 1 created and 2 skipped", report)
	}
	if len(creator.created) != 1 || creator.created[0].CompanyName != "Globex" {
		t.Fatalf("created = %+v", creator.created)
	}

	// Re-importing the same payload against the new snapshot creates nothing.
	snapshot := append(existing, creator.created...)
	report, err = imp.ImportBatch(context.Background(), payload, snapshot, Options{SkipDuplicates: true})
	if err != nil {
		t.Fatalf("ImportBatch (second run): %v", err)
	}
	if report.Created != 0 || report.SkippedDuplicate != 3 {
		t.Fatalf("second run not idempotent: %+v", report)
	}
}

func TestImportBatchWithoutSkipDuplicatesCreatesAll(t *testing.T) {
	existing := []customer.Customer{
		{CompanyName: "Acme Corp", ContactPerson: "Jane Doe"},
	}

	payload := csvPayload(
		"Acme Corp,Jane Doe,,,,lead,medium,,,,,",
		"Acme Corp,Jane Doe,,,,lead,medium,,,,,",
	)

	creator := &fakeCreator{}
	imp := newTestImporter(creator)

	report, err := imp.ImportBatch(context.Background(), payload, existing, Options{SkipDuplicates: false})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if report.Created != 2 || report.SkippedDuplicate != 0 {
		t.Fatalf("report = %+v, want 2 created", report)
	}
}

func TestImportBatchCommitFailureIsIsolated(t *testing.T) {
	creator := &fakeCreator{
		failFor: map[string]error{"Globex": errors.New("connection reset")},
	}
	imp := newTestImporter(creator)

	payload := csvPayload(
		"Acme Corp,Jane Doe,,,,lead,medium,,,,,",
		"Globex,Hank Scorpio,,,,approach,high,,,,,",
		"Initech,Bill Lumbergh,,,,won,low,,,,,",
	)

	report, err := imp.ImportBatch(context.Background(), payload, nil, Options{})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}

	if report.Created != 2 || report.FailedCommit != 1 {
		t.Fatalf("report = %+v, want 2 created and 1 failed commit", report)
	}
	if report.Rows[1].Outcome != OutcomeFailedCommit {
		t.Fatalf("row 2 outcome = %q", report.Rows[1].Outcome)
	}
	// Store failures are reported through the typed commit error.
	want := (&xerrors.CommitError{Err: creator.failFor["Globex"]}).Error()
	if report.Rows[1].Reason != want {
		t.Fatalf("row 2 reason = %q, want %q", report.Rows[1].Reason, want)
	}
}

func TestImportBatchHeaderOnly(t *testing.T) {
	imp := newTestImporter(&fakeCreator{})

	report, err := imp.ImportBatch(context.Background(), csvPayload(), nil, Options{})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if report.Created != 0 || len(report.Rows) != 0 {
		t.Fatalf("header-only payload produced rows: %+v", report)
	}
}

func TestImportBatchEmptyPayloadIsFatal(t *testing.T) {
	imp := newTestImporter(&fakeCreator{})

	_, err := imp.ImportBatch(context.Background(), "", nil, Options{})
	if err == nil {
		t.Fatal("expected an error for a payload without a header row")
	}
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestImportBatchStripsBOM(t *testing.T) {
	creator := &fakeCreator{}
	imp := newTestImporter(creator)

	payload := "\ufeff" + csvPayload("Acme Corp,Jane Doe,,,,lead,medium,,,,,")

	report, err := imp.ImportBatch(context.Background(), payload, nil, Options{})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if report.Created != 1 {
		t.Fatalf("BOM header not recognized: %+v", report)
	}
}

func TestTemplateParsesAgainstImporter(t *testing.T) {
	creator := &fakeCreator{}
	imp := newTestImporter(creator)

	report, err := imp.ImportBatch(context.Background(), string(Template()), nil, Options{})
	if err != nil {
		t.Fatalf("template payload failed to import: %v", err)
	}
	if report.FailedValidation != 0 || report.Created != len(report.Rows) {
		t.Fatalf("template rows did not import cleanly: %+v", report)
	}
}
