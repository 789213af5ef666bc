// Package render turns report rows into user-facing reply text. Internal
// identifier and audit columns are stripped before display.
package render

import (
	"fmt"
	"strings"

	"crm-assistant/internal/models"
)

const (
	// NullPlaceholder replaces SQL NULLs in rendered rows.
	NullPlaceholder = "-"
	// ValueSeparator joins the values of a single row.
	ValueSeparator = " — "
	// EmptyResult is rendered when a report returns no rows.
	EmptyResult = "(no data)"
)

// deniedColumns are never shown to users: surrogate keys, foreign keys and
// audit timestamps.
var deniedColumns = map[string]struct{}{
	"id":               {},
	"customer_id":      {},
	"campaign_id":      {},
	"lead_id":          {},
	"deal_id":          {},
	"service_id":       {},
	"activity_id":      {},
	"team_id":          {},
	"company_id":       {},
	"communication_id": {},
	"ticket_id":        {},
	"product_id":       {},
	"created_at":       {},
	"updated_at":       {},
	"deleted_at":       {},
}

// Denied reports whether a column is stripped from rendered output.
func Denied(column string) bool {
	_, ok := deniedColumns[column]
	return ok
}

// Result renders a report result as a header line naming the report, then one
// numbered line per row with denylisted columns removed.
func Result(description string, result models.ReportResult) string {
	var b strings.Builder
	b.WriteString(description)
	b.WriteString(":\n")

	if len(result.Rows) == 0 {
		b.WriteString(EmptyResult)
		return b.String()
	}

	for i, row := range result.Rows {
		b.WriteString(fmt.Sprintf("%d) %s", i+1, Row(result.Columns, row)))
		if i < len(result.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Row renders a single row: non-denylisted values in column order, joined
// with the separator, NULLs replaced by the placeholder.
func Row(columns []string, row models.ReportRow) string {
	values := make([]string, 0, len(columns))
	for _, col := range columns {
		if Denied(col) {
			continue
		}
		values = append(values, stringify(row[col]))
	}
	return strings.Join(values, ValueSeparator)
}

func stringify(v interface{}) string {
	if v == nil {
		return NullPlaceholder
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
