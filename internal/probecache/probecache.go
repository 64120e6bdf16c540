package probecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"loom/internal/media/audioinfo"
)

const schema = `
CREATE TABLE IF NOT EXISTS probes (
    path        TEXT    NOT NULL,
    size        INTEGER NOT NULL,
    mtime_unix  INTEGER NOT NULL,
    sample_rate INTEGER NOT NULL,
    channels    INTEGER NOT NULL,
    num_samples INTEGER NOT NULL,
    PRIMARY KEY (path, size, mtime_unix)
);
`

// Store manages probe persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the probe database at dbPath, creating
// parent directories as needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure probes table: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached probe result for the file identified by
// (path, size, mtime). A changed file never matches.
func (s *Store) Get(ctx context.Context, path string, size, mtimeUnix int64) (audioinfo.Info, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT sample_rate, channels, num_samples FROM probes WHERE path = ? AND size = ? AND mtime_unix = ?`,
		path, size, mtimeUnix,
	)

	var info audioinfo.Info
	if err := row.Scan(&info.SampleRate, &info.Channels, &info.NumSamples); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return audioinfo.Info{}, false, nil
		}
		return audioinfo.Info{}, false, fmt.Errorf("query probe: %w", err)
	}
	if info.SampleRate > 0 {
		info.Duration = float64(info.NumSamples) / float64(info.SampleRate)
	}
	return info, true, nil
}

// Put stores or replaces the probe result for the file identified by
// (path, size, mtime). Stale rows for the same path are removed so the
// table does not accumulate entries for rewritten files.
func (s *Store) Put(ctx context.Context, path string, size, mtimeUnix int64, info audioinfo.Info) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin probe tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM probes WHERE path = ?`, path); err != nil {
		return fmt.Errorf("evict stale probes: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO probes (path, size, mtime_unix, sample_rate, channels, num_samples) VALUES (?, ?, ?, ?, ?, ?)`,
		path, size, mtimeUnix, info.SampleRate, info.Channels, info.NumSamples,
	); err != nil {
		return fmt.Errorf("insert probe: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit probe: %w", err)
	}
	return nil
}
