package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_UnknownReport(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = Execute(context.Background(), db, "no_such_report")
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestExecute_TicketsOpenToday(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"status", "subject", "ticket_id", "customer"}).
		AddRow("open", "Printer rusak", int64(5), "PT Maju").
		AddRow("open", "Invoice salah", int64(6), "CV Baru")

	mock.ExpectQuery(`SELECT t.status, t.subject, t.ticket_id, c.name AS customer`).
		WillReturnRows(rows)

	result, err := Execute(context.Background(), db, "tickets_open_today")
	require.NoError(t, err)

	assert.Equal(t, []string{"status", "subject", "ticket_id", "customer"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "open", result.Rows[0]["status"])
	assert.Equal(t, "Printer rusak", result.Rows[0]["subject"])
	assert.Equal(t, "CV Baru", result.Rows[1]["customer"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_EmptyResultIsNonNilRowList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM leads l`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "source", "status", "lead_id"}))

	result, err := Execute(context.Background(), db, "leads_today")
	require.NoError(t, err)
	assert.NotNil(t, result.Rows)
	assert.Len(t, result.Rows, 0)
}

func TestExecute_ByteColumnsNormalizedToString(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"city", "total"}).
		AddRow([]byte("Jakarta"), int64(3))

	mock.ExpectQuery(`FROM companies co`).WillReturnRows(rows)

	result, err := Execute(context.Background(), db, "companies_by_city")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Jakarta", result.Rows[0]["city"])
}

func TestExecute_PropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM services s`).WillReturnError(errors.New("relation does not exist"))

	_, err = Execute(context.Background(), db, "services_active")
	assert.Error(t, err)
}

func TestRegistry_CatalogReportsAllRegistered(t *testing.T) {
	for _, name := range []string{
		"tickets_open_today", "leads_today", "customers_new_week",
		"deals_won_month", "services_active", "companies_by_city",
	} {
		assert.True(t, Exists(name), name)
	}
	assert.False(t, Exists("drop_all_tables"))
	assert.Len(t, Names(), len(Registry))
}
