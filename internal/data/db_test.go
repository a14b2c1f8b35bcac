package data

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func record(id, run string, at time.Time, phi float64) conscious.ExperienceRecord {
	return conscious.ExperienceRecord{
		Experience: conscious.ConsciousExperience{
			ID:          id,
			RunID:       run,
			Timestamp:   at,
			MainContent: "step: " + id,
			PhiLevel:    phi,
			QualiaCount: 3,
			DurationMs:  820,
		},
		Phenomenology: map[string]any{"phi": phi, "proposals": []any{"Investigate " + id}},
	}
}

func openMemory(t *testing.T, driver string) *Mirror {
	t.Helper()
	m, err := Open(driver, MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMirror_Drivers(t *testing.T) {
	for _, driver := range []string{DriverCGO, DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			m := openMemory(t, driver)
			assert.Equal(t, driver, m.Driver())
			require.NoError(t, m.Health(ctx))

			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			require.NoError(t, m.PersistExperience(ctx, record("e1", "r1", base, 3.5)))
			require.NoError(t, m.PersistExperience(ctx, record("e2", "r1", base.Add(time.Second), 4.1)))
			require.NoError(t, m.PersistExperience(ctx, record("e3", "r2", base.Add(2*time.Second), 5.0)))

			n, err := m.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			recent, err := m.Recent(ctx, 2)
			require.NoError(t, err)
			require.Len(t, recent, 2)
			assert.Equal(t, "e3", recent[0].Experience.ID)
			assert.Equal(t, "e2", recent[1].Experience.ID)

			byRun, err := m.ByRun(ctx, "r1")
			require.NoError(t, err)
			require.Len(t, byRun, 2)
			got := byRun[0]
			assert.Equal(t, "e1", got.Experience.ID)
			assert.True(t, base.Equal(got.Experience.Timestamp))
			assert.Equal(t, 3.5, got.Experience.PhiLevel)
			assert.Equal(t, 3, got.Experience.QualiaCount)
			assert.EqualValues(t, 820, got.Experience.DurationMs)
			assert.Equal(t, 3.5, got.Phenomenology["phi"])
		})
	}
}

func TestMirror_UpsertAndNilPhenomenology(t *testing.T) {
	ctx := context.Background()
	m := openMemory(t, DriverPureGo)

	rec := record("e1", "r1", time.Now(), 3.2)
	require.NoError(t, m.PersistExperience(ctx, rec))
	rec.Experience.PhiLevel = 6.4
	rec.Phenomenology = nil
	require.NoError(t, m.PersistExperience(ctx, rec))

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recent, err := m.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 6.4, recent[0].Experience.PhiLevel)
	assert.Empty(t, recent[0].Phenomenology)
}

func TestMirror_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "experiences.db")

	m, err := Open(DriverPureGo, path)
	require.NoError(t, err)
	require.NoError(t, m.PersistExperience(ctx, record("e1", "r1", time.Now(), 3)))
	require.NoError(t, m.Close())

	m, err = Open(DriverPureGo, path)
	require.NoError(t, err)
	defer m.Close()
	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "migrations are idempotent and data survives reopen")
}

func TestMirror_CancelledContext(t *testing.T) {
	m := openMemory(t, DriverCGO)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, m.PersistExperience(ctx, record("e1", "r1", time.Now(), 3)))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open("postgres", MemoryPath)
	assert.True(t, errors.Is(err, ErrUnknownDriver))

	_, err = Open(DriverCGO, "")
	assert.Error(t, err)

	assert.True(t, ValidDriver("sqlite"))
	assert.False(t, ValidDriver("mysql"))
}

func TestSplitSQL(t *testing.T) {
	stmts := splitSQL(experiencesSchema)
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS conscious_experiences")
	for _, s := range stmts {
		assert.NotContains(t, s, "--")
	}
}
