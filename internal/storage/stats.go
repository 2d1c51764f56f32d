package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetStats returns what the database holds.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Driver: DriverPostgres}

	var updated time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT length(data::text), updated_at FROM snapshots WHERE name = $1`, snapshotName,
	).Scan(&stats.SnapshotBytes, &updated)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("reading snapshot stats: %w", err)
	default:
		stats.SnapshotUpdated = &updated
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1),
		       MAX(created_at) FILTER (WHERE status = $2)
		FROM sync_logs
	`, SyncStatusError, SyncStatusOK).Scan(&stats.SyncAttempts, &stats.SyncFailures, &stats.LastSuccessfulAt)
	if err != nil {
		return nil, fmt.Errorf("counting sync logs: %w", err)
	}
	return stats, nil
}
