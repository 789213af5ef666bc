// internal/chat/reports/registry.go
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crm-assistant/internal/models"
)

var (
	ErrUnknownReport = errors.New("unknown report")
)

// ReportFunc runs one fixed, parameterless report query and returns the
// normalized result. Reports are the only way preset-triggered SQL reaches
// the database; preset rows reference them by name, never by query text.
type ReportFunc func(ctx context.Context, db *sql.DB) (models.ReportResult, error)

var Registry = map[string]ReportFunc{
	"tickets_open_today": TicketsOpenToday,
	"leads_today":        LeadsToday,
	"customers_new_week": CustomersNewWeek,
	"deals_won_month":    DealsWonMonth,
	"services_active":    ServicesActive,
	"companies_by_city":  CompaniesByCity,
}

// Execute looks up and runs a report by name.
func Execute(ctx context.Context, db *sql.DB, name string) (models.ReportResult, error) {
	fn, exists := Registry[name]
	if !exists {
		return models.ReportResult{}, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}
	return fn(ctx, db)
}

// Exists reports whether a report name is registered.
func Exists(name string) bool {
	_, ok := Registry[name]
	return ok
}

// Names returns all registered report names.
func Names() []string {
	out := make([]string, 0, len(Registry))
	for name := range Registry {
		out = append(out, name)
	}
	return out
}

// runQuery executes a fixed statement and scans every row generically so a
// single helper serves all reports.
func runQuery(ctx context.Context, db *sql.DB, query string) (models.ReportResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return models.ReportResult{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.ReportResult{}, err
	}

	result := models.ReportResult{
		Columns: columns,
		Rows:    []models.ReportRow{},
	}

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return models.ReportResult{}, err
		}
		row := make(models.ReportRow, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.ReportResult{}, err
	}

	return result, nil
}

// normalize converts driver byte slices to strings so rows are render- and
// JSON-friendly.
func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
