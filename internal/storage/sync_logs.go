package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// InsertSyncLog records a remote sync attempt.
func (db *DB) InsertSyncLog(ctx context.Context, log SyncLog) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sync_logs (id, created_at, direction, status, bytes, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		log.ID.String(), log.CreatedAt, log.Direction, log.Status, log.Bytes, log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("inserting sync log: %w", err)
	}
	return nil
}

// QuerySyncLogs returns the most recent sync attempts, newest first.
func (db *DB) QuerySyncLogs(ctx context.Context, limit int) ([]SyncLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id::text, created_at, direction, status, bytes, duration_ms, error_message
		 FROM sync_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		logLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying sync logs: %w", err)
	}
	defer rows.Close()

	var result []SyncLog
	for rows.Next() {
		var (
			l  SyncLog
			id string
		)
		if err := rows.Scan(&id, &l.CreatedAt, &l.Direction, &l.Status,
			&l.Bytes, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning sync log: %w", err)
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing sync log id: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
