package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id           TEXT PRIMARY KEY,
	target       TEXT NOT NULL,
	company      TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	degraded     INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	completed_at TIMESTAMP NOT NULL,
	record       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_completed_at ON leads(completed_at DESC);
`

// SQLiteStore persists leads in an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and creates if needed) a SQLite database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open sqlite")
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "store: sqlite pragmas")
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "store: migrate sqlite")
	}
	return nil
}

func (s *SQLiteStore) SaveLead(ctx context.Context, lead *model.LeadRecord) error {
	record, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "store: marshal lead")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO leads (id, target, company, status, degraded, error, duration_ms, completed_at, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			degraded = excluded.degraded,
			error = excluded.error,
			duration_ms = excluded.duration_ms,
			completed_at = excluded.completed_at,
			record = excluded.record`,
		lead.ID, lead.Target, lead.Practice.Company, string(lead.Status),
		boolToInt(lead.Degraded), lead.Error, lead.DurationMS, lead.CompletedAt, string(record),
	)
	if err != nil {
		return eris.Wrap(err, "store: save lead")
	}
	return nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, limit int) ([]model.LeadRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM leads ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list leads")
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanRecords decodes the JSON record column from a result set.
func scanRecords(rows *sql.Rows) ([]model.LeadRecord, error) {
	var leads []model.LeadRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrap(err, "store: scan lead")
		}
		var lead model.LeadRecord
		if err := json.Unmarshal([]byte(raw), &lead); err != nil {
			return nil, eris.Wrap(err, "store: decode lead")
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate leads")
	}
	return leads, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
