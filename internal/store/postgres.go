package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id           TEXT PRIMARY KEY,
	target       TEXT NOT NULL,
	company      TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	degraded     BOOLEAN NOT NULL DEFAULT FALSE,
	error        TEXT NOT NULL DEFAULT '',
	duration_ms  BIGINT NOT NULL DEFAULT 0,
	completed_at TIMESTAMPTZ NOT NULL,
	record       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_completed_at ON leads(completed_at DESC);
`

// pgQuerier is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it too, which keeps the Postgres paths testable without a server.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore persists leads in Postgres via a pgx pool.
type PostgresStore struct {
	db pgQuerier
}

// NewPostgres connects a pgx pool to the given database URL.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping postgres")
	}
	return &PostgresStore{db: pool}, nil
}

// newPostgresWithQuerier wires an existing querier (tests).
func newPostgresWithQuerier(db pgQuerier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return eris.Wrap(err, "store: migrate postgres")
	}
	return nil
}

func (s *PostgresStore) SaveLead(ctx context.Context, lead *model.LeadRecord) error {
	record, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "store: marshal lead")
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO leads (id, target, company, status, degraded, error, duration_ms, completed_at, record)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			degraded = EXCLUDED.degraded,
			error = EXCLUDED.error,
			duration_ms = EXCLUDED.duration_ms,
			completed_at = EXCLUDED.completed_at,
			record = EXCLUDED.record`,
		lead.ID, lead.Target, lead.Practice.Company, string(lead.Status),
		lead.Degraded, lead.Error, lead.DurationMS, lead.CompletedAt, record,
	)
	if err != nil {
		return eris.Wrap(err, "store: save lead")
	}
	return nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, limit int) ([]model.LeadRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.Query(ctx,
		`SELECT record FROM leads ORDER BY completed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list leads")
	}
	defer rows.Close()

	var leads []model.LeadRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrap(err, "store: scan lead")
		}
		var lead model.LeadRecord
		if err := json.Unmarshal(raw, &lead); err != nil {
			return nil, eris.Wrap(err, "store: decode lead")
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate leads")
	}
	return leads, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
