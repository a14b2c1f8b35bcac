// Package data mirrors conscious experiences into SQLite. Two drivers are
// supported: github.com/mattn/go-sqlite3 ("sqlite3", CGO) and
// modernc.org/sqlite ("sqlite", pure Go).
package data

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver, registered as "sqlite3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registered as "sqlite"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Supported drivers.
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"

	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"

	defaultRecentLimit = 20

	// timestampLayout is fixed-width so text ordering matches time ordering.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

//go:embed migrations/001_experiences.sql
var experiencesSchema string

// ErrUnknownDriver is returned by Open for drivers other than sqlite3 and sqlite.
var ErrUnknownDriver = errors.New("unknown sqlite driver")

// Mirror is the SQLite experience mirror. It implements conscious.Persister.
type Mirror struct {
	db     *sql.DB
	driver string
	path   string
	log    zerolog.Logger
}

var _ conscious.Persister = (*Mirror)(nil)

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the mirror logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Mirror) { m.log = log }
}

// ValidDriver reports whether driver is supported.
func ValidDriver(driver string) bool {
	return driver == DriverCGO || driver == DriverPureGo
}

// Open opens (creating if needed) the mirror database at path and applies
// the schema. Use MemoryPath for a throwaway database.
func Open(driver, path string, opts ...Option) (*Mirror, error) {
	if !ValidDriver(driver) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer, and an in-memory database
	// lives only as long as its one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	m := &Mirror{db: db, driver: driver, path: path, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.initPragmas(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize pragmas: %w", err)
	}
	if err := m.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	m.log.Debug().Str("driver", driver).Str("path", path).Msg("experience mirror opened")
	return m, nil
}

func (m *Mirror) initPragmas() error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	if m.path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, pragma := range pragmas {
		if _, err := m.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Migrate applies the embedded schema. It is idempotent.
func (m *Mirror) Migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range splitSQL(experiencesSchema) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute statement %d: %w\nSQL: %s", i+1, err, stmt)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// PersistExperience upserts one experience with its phenomenology.
func (m *Mirror) PersistExperience(ctx context.Context, rec conscious.ExperienceRecord) error {
	ph := rec.Phenomenology
	if ph == nil {
		ph = map[string]any{}
	}
	phJSON, err := json.Marshal(ph)
	if err != nil {
		return fmt.Errorf("marshal phenomenology: %w", err)
	}

	exp := rec.Experience
	_, err = m.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO conscious_experiences
			(id, run_id, timestamp, main_content, phi_level, qualia_count, duration_ms, phenomenology)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.RunID, exp.Timestamp.UTC().Format(timestampLayout), exp.MainContent,
		exp.PhiLevel, exp.QualiaCount, exp.DurationMs, string(phJSON),
	)
	if err != nil {
		return fmt.Errorf("insert experience %s: %w", exp.ID, err)
	}
	return nil
}

// Recent returns the newest experiences first. limit <= 0 uses 20.
func (m *Mirror) Recent(ctx context.Context, limit int) ([]conscious.ExperienceRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return m.query(ctx, `
		SELECT id, run_id, timestamp, main_content, phi_level, qualia_count, duration_ms, phenomenology
		FROM conscious_experiences
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
}

// ByRun returns a run's experiences in timestamp order.
func (m *Mirror) ByRun(ctx context.Context, runID string) ([]conscious.ExperienceRecord, error) {
	return m.query(ctx, `
		SELECT id, run_id, timestamp, main_content, phi_level, qualia_count, duration_ms, phenomenology
		FROM conscious_experiences
		WHERE run_id = ?
		ORDER BY timestamp ASC, id ASC`, runID)
}

// Count returns the number of mirrored experiences.
func (m *Mirror) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conscious_experiences").Scan(&n); err != nil {
		return 0, fmt.Errorf("count experiences: %w", err)
	}
	return n, nil
}

func (m *Mirror) query(ctx context.Context, q string, args ...any) ([]conscious.ExperienceRecord, error) {
	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	defer rows.Close()

	var out []conscious.ExperienceRecord
	for rows.Next() {
		var (
			rec    conscious.ExperienceRecord
			ts     string
			phJSON string
			exp    = &rec.Experience
		)
		if err := rows.Scan(&exp.ID, &exp.RunID, &ts, &exp.MainContent, &exp.PhiLevel, &exp.QualiaCount, &exp.DurationMs, &phJSON); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		if exp.Timestamp, err = time.Parse(timestampLayout, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp of %s: %w", exp.ID, err)
		}
		if err := json.Unmarshal([]byte(phJSON), &rec.Phenomenology); err != nil {
			return nil, fmt.Errorf("unmarshal phenomenology of %s: %w", exp.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Driver returns the driver name the mirror was opened with.
func (m *Mirror) Driver() string {
	return m.driver
}

// Health checks if the database connection is alive and responsive.
func (m *Mirror) Health(ctx context.Context) error {
	var result int
	if err := m.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Close checkpoints the WAL and closes the database.
func (m *Mirror) Close() error {
	if m.db == nil {
		return nil
	}
	if m.path != MemoryPath {
		if _, err := m.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			m.log.Warn().Err(err).Msg("wal checkpoint failed")
		}
	}
	if err := m.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// splitSQL splits a schema into statements, dropping comment lines. The
// schema holds no triggers or string literals containing semicolons.
func splitSQL(schema string) []string {
	var lines []string
	for _, line := range strings.Split(schema, "\n") {
		if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "--") {
			lines = append(lines, line)
		}
	}
	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
