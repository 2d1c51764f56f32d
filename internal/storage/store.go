// Package storage is the local durable tier. It keeps the latest snapshot document, a few
// named settings and a log of remote sync attempts, in SQLite by default or PostgreSQL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no snapshot or setting has been stored yet.
var ErrNotFound = errors.New("not found")

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Setting names.
const (
	SettingBinID = "remote.bin_id"
	// SettingPending is "1" while the local snapshot has changes the remote has not seen.
	SettingPending = "remote.pending"
)

// Store is implemented by SQLite and DB.
type Store interface {
	// LoadSnapshot returns the stored snapshot document or ErrNotFound.
	LoadSnapshot(ctx context.Context) ([]byte, error)
	// SaveSnapshot replaces the stored snapshot document.
	SaveSnapshot(ctx context.Context, data []byte) error
	Setting(ctx context.Context, name string) (string, error)
	SetSetting(ctx context.Context, name, value string) error
	InsertSyncLog(ctx context.Context, log SyncLog) error
	QuerySyncLogs(ctx context.Context, limit int) ([]SyncLog, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// Sync directions and outcomes.
const (
	SyncPull   = "pull"
	SyncPush   = "push"
	SyncCreate = "create"

	SyncStatusOK    = "ok"
	SyncStatusError = "error"
)

// SyncLog records one exchange with the remote store.
type SyncLog struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Direction    string    `json:"direction"`
	Status       string    `json:"status"`
	Bytes        int       `json:"bytes"`
	DurationMs   int       `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}

// NewSyncLog stamps a log entry with a fresh ID and the current time.
func NewSyncLog(direction string, bytes int, took time.Duration, err error) SyncLog {
	l := SyncLog{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		Direction:  direction,
		Status:     SyncStatusOK,
		Bytes:      bytes,
		DurationMs: int(took.Milliseconds()),
	}
	if err != nil {
		msg := err.Error()
		l.Status = SyncStatusError
		l.ErrorMessage = &msg
	}
	return l
}

// Stats describes what the local store holds.
type Stats struct {
	Driver           string     `json:"driver"`
	SnapshotBytes    int        `json:"snapshot_bytes"`
	SnapshotUpdated  *time.Time `json:"snapshot_updated"`
	SyncAttempts     int64      `json:"sync_attempts"`
	SyncFailures     int64      `json:"sync_failures"`
	LastSuccessfulAt *time.Time `json:"last_successful_sync"`
}

// Open connects to the configured local store. sqliteDir is used for the sqlite driver and
// dsn for postgres. Postgres migrations are applied separately with RunMigrations.
func Open(ctx context.Context, driver, sqliteDir, dsn string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return OpenSQLite(sqliteDir)
	case DriverPostgres:
		return New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

const defaultLogLimit = 50

func logLimit(limit int) int {
	if limit <= 0 {
		return defaultLogLimit
	}
	return limit
}
