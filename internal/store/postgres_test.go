package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSaveLead(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newPostgresWithQuerier(mock)
	lead := leadFixture("a.example", time.Now().UTC())

	mock.ExpectExec("INSERT INTO leads").
		WithArgs(lead.ID, lead.Target, lead.Practice.Company, string(lead.Status),
			lead.Degraded, lead.Error, lead.DurationMS, lead.CompletedAt, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveLead(context.Background(), lead))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListLeads(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newPostgresWithQuerier(mock)

	lead := leadFixture("a.example", time.Now().UTC())
	record, err := json.Marshal(lead)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT record FROM leads").
		WithArgs(25).
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(record))

	leads, err := s.ListLeads(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, lead.ID, leads[0].ID)
	assert.Equal(t, "Example Clinic Clinic", leads[0].Practice.Company)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newPostgresWithQuerier(mock)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS leads").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
