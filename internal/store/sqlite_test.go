package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func leadFixture(target string, completedAt time.Time) *model.LeadRecord {
	lead := model.NewLeadRecord(target)
	lead.Practice = model.PracticeData{Company: "Example Clinic Clinic", LeadScore: 85}
	lead.AddPhase(model.PhaseResult{Name: model.PhaseDiscover, Provenance: model.ProvenanceReal, Ref: "Example Clinic Clinic"})
	lead.AddPhase(model.PhaseResult{Name: model.PhaseStore, Provenance: model.ProvenanceFallback, Ref: "local-exampleclinicclinic"})
	lead.Status = model.LeadStatusSuccess
	lead.DurationMS = 1234
	lead.CompletedAt = completedAt
	return lead
}

func TestSQLiteSaveAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	older := leadFixture("a.example", now.Add(-time.Minute))
	newer := leadFixture("b.example", now)

	require.NoError(t, s.SaveLead(ctx, older))
	require.NoError(t, s.SaveLead(ctx, newer))

	leads, err := s.ListLeads(ctx, 0)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	// Newest first.
	assert.Equal(t, "b.example", leads[0].Target)
	assert.Equal(t, "a.example", leads[1].Target)

	// Full record survives the round trip.
	assert.Equal(t, "Example Clinic Clinic", leads[0].Practice.Company)
	require.Len(t, leads[0].Phases, 2)
	assert.Equal(t, model.ProvenanceFallback, leads[0].Phases[1].Provenance)
	assert.True(t, leads[0].Degraded)
}

func TestSQLiteSaveUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	lead := leadFixture("a.example", time.Now().UTC())
	require.NoError(t, s.SaveLead(ctx, lead))

	lead.Status = model.LeadStatusFailed
	lead.Error = "deploy phase panicked"
	require.NoError(t, s.SaveLead(ctx, lead))

	leads, err := s.ListLeads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, model.LeadStatusFailed, leads[0].Status)
	assert.Equal(t, "deploy phase panicked", leads[0].Error)
}

func TestSQLiteListLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveLead(ctx, leadFixture("t.example", base.Add(time.Duration(i)*time.Second))))
	}

	leads, err := s.ListLeads(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, leads, 3)
}

func TestOpenSQLiteDriver(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "leads.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	leads, err := s.ListLeads(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
