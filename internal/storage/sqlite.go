package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// sqliteFile is the database file created inside the storage directory.
const sqliteFile = "threehundred.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	name        TEXT PRIMARY KEY,
	data        BLOB NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	name        TEXT PRIMARY KEY,
	value       TEXT NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_logs (
	id             TEXT PRIMARY KEY,
	created_at     INTEGER NOT NULL,
	direction      TEXT NOT NULL,
	status         TEXT NOT NULL,
	bytes          INTEGER NOT NULL DEFAULT 0,
	duration_ms    INTEGER NOT NULL DEFAULT 0,
	error_message  TEXT
);
CREATE INDEX IF NOT EXISTS sync_logs_created_at_idx ON sync_logs (created_at DESC);
`

// SQLite is the default store: a single database file under a data directory. Times are
// stored as Unix milliseconds.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at dir/threehundred.db.
func OpenSQLite(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, sqliteFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) LoadSnapshot(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE name = ?`, snapshotName,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return data, nil
}

func (s *SQLite) SaveSnapshot(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (name, data, updated_at) VALUES (?, ?, ?)`,
		snapshotName, data, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (s *SQLite) Setting(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE name = ?`, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", name, err)
	}
	return value, nil
}

func (s *SQLite) SetSetting(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (name, value, updated_at) VALUES (?, ?, ?)`,
		name, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) InsertSyncLog(ctx context.Context, log SyncLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_logs (id, created_at, direction, status, bytes, duration_ms, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ID.String(), log.CreatedAt.UnixMilli(), log.Direction, log.Status,
		log.Bytes, log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("inserting sync log: %w", err)
	}
	return nil
}

func (s *SQLite) QuerySyncLogs(ctx context.Context, limit int) ([]SyncLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, direction, status, bytes, duration_ms, error_message
		 FROM sync_logs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		logLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying sync logs: %w", err)
	}
	defer rows.Close()

	var result []SyncLog
	for rows.Next() {
		var (
			l       SyncLog
			id      string
			created int64
		)
		if err := rows.Scan(&id, &created, &l.Direction, &l.Status,
			&l.Bytes, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning sync log: %w", err)
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing sync log id: %w", err)
		}
		l.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, l)
	}
	return result, rows.Err()
}

func (s *SQLite) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Driver: DriverSQLite}

	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT length(data), updated_at FROM snapshots WHERE name = ?`, snapshotName,
	).Scan(&stats.SnapshotBytes, &updated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("reading snapshot stats: %w", err)
	default:
		t := time.UnixMilli(updated).UTC()
		stats.SnapshotUpdated = &t
	}

	var lastOK sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(status = ?), 0),
		       MAX(CASE WHEN status = ? THEN created_at END)
		FROM sync_logs
	`, SyncStatusError, SyncStatusOK).Scan(&stats.SyncAttempts, &stats.SyncFailures, &lastOK)
	if err != nil {
		return nil, fmt.Errorf("counting sync logs: %w", err)
	}
	if lastOK.Valid {
		t := time.UnixMilli(lastOK.Int64).UTC()
		stats.LastSuccessfulAt = &t
	}
	return stats, nil
}
