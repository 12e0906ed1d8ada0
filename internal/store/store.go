// Package store persists completed lead records. Two backends are available:
// an embedded SQLite database for local runs and Postgres for shared
// deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Store is the persistence interface for lead records.
type Store interface {
	// Migrate creates or updates the schema. Idempotent.
	Migrate(ctx context.Context) error
	// SaveLead upserts one completed lead record.
	SaveLead(ctx context.Context, lead *model.LeadRecord) error
	// ListLeads returns the most recently completed leads, newest first.
	// A limit <= 0 applies the default of 100.
	ListLeads(ctx context.Context, limit int) ([]model.LeadRecord, error)
	// Close releases the underlying connections.
	Close() error
}

const defaultListLimit = 100

// Open creates a Store from configuration and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		s, err = NewSQLite(cfg.SQLitePath)
	default:
		return nil, eris.New("store: unknown driver " + cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
