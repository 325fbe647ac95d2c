// internal/importer/template.go
package importer

import (
	"bytes"
	"encoding/csv"
)

// Header lists the import columns in their canonical order.
var Header = []string{
	"company_name", "contact_person", "email", "phone", "address",
	"status", "priority", "next_action", "next_contact_date", "notes",
	"estimated_value", "probability",
}

const (
	TemplateFilename    = "customer_import_template.csv"
	TemplateContentType = "text/csv; charset=utf-8"
)

var templateRows = [][]string{
	{"Acme Corp", "Jane Doe", "jane@acme.example", "03-1234-5678", "12 Harbor St", "lead", "medium", "First visit", "2025-01-25", "Inbound inquiry", "500000", "30"},
	{"Globex Trading", "Hanna Sato", "hanna@globex.example", "03-8765-4321", "8 Station Rd", "approach", "high", "Prepare proposal", "2025-01-20", "Interested in new system", "300000", "60"},
}

// Template renders the downloadable CSV template: the exact import header
// plus example rows.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Header)
	for _, row := range templateRows {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}
