// internal/chat/reports/crm.go
package reports

import (
	"context"
	"database/sql"

	"crm-assistant/internal/models"
)

// TicketsOpenToday lists tickets opened today that are still open.
func TicketsOpenToday(ctx context.Context, db *sql.DB) (models.ReportResult, error) {
	return runQuery(ctx, db, `
		SELECT t.status, t.subject, t.ticket_id, c.name AS customer
		FROM tickets t
		JOIN customers c ON c.customer_id = t.customer_id
		WHERE t.status = 'open' AND t.created_at::date = CURRENT_DATE
		ORDER BY t.created_at`)
}

// LeadsToday lists leads created today.
func LeadsToday(ctx context.Context, db *sql.DB) (models.ReportResult, error) {
	return runQuery(ctx, db, `
		SELECT l.name, l.source, l.status, l.lead_id
		FROM leads l
		WHERE l.created_at::date = CURRENT_DATE
		ORDER BY l.created_at`)
}

// CustomersNewWeek lists customers registered in the last 7 days.
func CustomersNewWeek(ctx context.Context, db *sql.DB) (models.ReportResult, error) {
	return runQuery(ctx, db, `
		SELECT c.name, c.email, c.phone, c.customer_id
		FROM customers c
		WHERE c.created_at >= CURRENT_DATE - INTERVAL '7 days'
		ORDER BY c.created_at DESC`)
}

// DealsWonMonth lists deals marked won in the current month.
func DealsWonMonth(ctx context.Context, db *sql.DB) (models.ReportResult, error) {
	return runQuery(ctx, db, `
		SELECT d.title, d.value, c.name AS customer, d.deal_id
		FROM deals d
		JOIN customers c ON c.customer_id = d.customer_id
		WHERE d.stage = 'won'
		  AND date_trunc('month', d.updated_at) = date_trunc('month', CURRENT_DATE)
		ORDER BY d.value DESC`)
}

// ServicesActive lists services currently marked active.
func ServicesActive(ctx context.Context, db *sql.DB) (models.ReportResult, error) {
	return runQuery(ctx, db, `
		SELECT s.name, s.price, s.status, s.service_id
		FROM services s
		WHERE s.status = 'active'
		ORDER BY s.name`)
}

// CompaniesByCity lists companies grouped by city with member counts.
func CompaniesByCity(ctx context.Context, db *sql.DB) (models.ReportResult, error) {
	return runQuery(ctx, db, `
		SELECT co.city, COUNT(*) AS total
		FROM companies co
		GROUP BY co.city
		ORDER BY total DESC`)
}

// DumpTables is the table set covered by the full-dump document job, in the
// order they appear in the rendered PDF.
var DumpTables = []string{
	"customers",
	"leads",
	"deals",
	"tickets",
	"services",
	"companies",
	"campaigns",
	"activities",
}
