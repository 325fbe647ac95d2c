// internal/importer/csv.go
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"salespipe-service/internal/domain/customer"
	xerrors "salespipe-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Row outcomes reported per candidate record.
const (
	OutcomeCreated          = "created"
	OutcomeSkippedDuplicate = "skipped-duplicate"
	OutcomeFailedValidation = "failed-validation"
	OutcomeFailedCommit     = "failed-commit"
)

type Options struct {
	// SkipDuplicates excludes candidates whose company_name and
	// contact_person match (case-insensitively) an existing record or an
	// earlier accepted row in the same batch.
	SkipDuplicates bool
}

type RowResult struct {
	Row         int    `json:"row"` // 1-based data row number, header excluded
	Outcome     string `json:"outcome"`
	Reason      string `json:"reason,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	CustomerID  string `json:"customer_id,omitempty"`
}

type Report struct {
	Created          int         `json:"created"`
	SkippedDuplicate int         `json:"skipped_duplicate"`
	FailedValidation int         `json:"failed_validation"`
	FailedCommit     int         `json:"failed_commit"`
	Rows             []RowResult `json:"rows"`
}

// Creator commits a surviving row to the customer store. Each creation is
// independent; one failure never stops the batch.
type Creator interface {
	CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error)
}

type Importer struct {
	creator Creator
	logger  *zap.Logger
}

func New(creator Creator, logger *zap.Logger) *Importer {
	return &Importer{creator: creator, logger: logger}
}

// ImportBatch runs the full parse/validate/dedupe/commit pipeline over a
// raw CSV payload and returns a per-row report. Only a payload without a
// header row is fatal; every other failure is isolated to its row.
func (imp *Importer) ImportBatch(ctx context.Context, raw string, existing []customer.Customer, opts Options) (*Report, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1 // column counts are checked per row

	header, err := reader.Read()
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "csv payload has no header row")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	seen := map[string]struct{}{}
	if opts.SkipDuplicates {
		for i := range existing {
			seen[duplicateKey(existing[i].CompanyName, existing[i].ContactPerson)] = struct{}{}
		}
	}

	report := &Report{Rows: []RowResult{}}
	rowNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			report.fail(RowResult{Row: rowNum, Outcome: OutcomeFailedValidation, Reason: fmt.Sprintf("malformed row: %v", err)})
			continue
		}
		if len(record) != len(header) {
			report.fail(RowResult{Row: rowNum, Outcome: OutcomeFailedValidation, Reason: fmt.Sprintf("expected %d columns, got %d", len(header), len(record))})
			continue
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			fields[col] = strings.TrimSpace(record[i])
		}

		req, err := requestFromRow(fields)
		if err != nil {
			report.fail(RowResult{Row: rowNum, Outcome: OutcomeFailedValidation, Reason: err.Error(), CompanyName: fields["company_name"]})
			continue
		}
		parsed, err := req.ToCustomer()
		if err != nil {
			report.fail(RowResult{Row: rowNum, Outcome: OutcomeFailedValidation, Reason: err.Error(), CompanyName: fields["company_name"]})
			continue
		}

		key := duplicateKey(parsed.CompanyName, parsed.ContactPerson)
		if opts.SkipDuplicates {
			if _, dup := seen[key]; dup {
				report.SkippedDuplicate++
				report.Rows = append(report.Rows, RowResult{Row: rowNum, Outcome: OutcomeSkippedDuplicate, CompanyName: parsed.CompanyName})
				continue
			}
			// Accepted candidates shadow later rows in the same batch.
			seen[key] = struct{}{}
		}

		created, err := imp.creator.CreateCustomer(ctx, req)
		if err != nil {
			var cerr *xerrors.CommitError
			if !errors.As(err, &cerr) {
				cerr = &xerrors.CommitError{Err: err}
			}
			imp.logger.Warn("import row commit failed",
				zap.Int("row", rowNum),
				zap.String("company_name", parsed.CompanyName),
				zap.Error(cerr),
			)
			report.FailedCommit++
			report.Rows = append(report.Rows, RowResult{Row: rowNum, Outcome: OutcomeFailedCommit, Reason: cerr.Error(), CompanyName: parsed.CompanyName})
			continue
		}

		report.Created++
		report.Rows = append(report.Rows, RowResult{Row: rowNum, Outcome: OutcomeCreated, CompanyName: created.CompanyName, CustomerID: created.ID})
	}

	return report, nil
}

func (r *Report) fail(row RowResult) {
	r.FailedValidation++
	r.Rows = append(r.Rows, row)
}

func duplicateKey(company, contact string) string {
	return strings.ToLower(strings.TrimSpace(company)) + "\x00" + strings.ToLower(strings.TrimSpace(contact))
}

// requestFromRow maps a header-keyed row onto a creation request. Numeric
// columns are validated here so a bad cell rejects only its own row.
func requestFromRow(fields map[string]string) (*customer.CreateCustomerRequest, error) {
	req := &customer.CreateCustomerRequest{
		CompanyName:     fields["company_name"],
		ContactPerson:   fields["contact_person"],
		Email:           fields["email"],
		Phone:           fields["phone"],
		Address:         fields["address"],
		Status:          fields["status"],
		Priority:        fields["priority"],
		NextAction:      fields["next_action"],
		NextContactDate: fields["next_contact_date"],
		Notes:           fields["notes"],
	}

	if v := fields["estimated_value"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, xerrors.NewValidation("estimated_value", "must be a number")
		}
		req.EstimatedValue = &f
	}

	if v := fields["probability"]; v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, xerrors.NewValidation("probability", "must be an integer")
		}
		req.Probability = p
	}

	return req, nil
}
