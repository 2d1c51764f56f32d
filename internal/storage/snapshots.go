package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// snapshotName is the row holding the single user's snapshot.
const snapshotName = "default"

// LoadSnapshot returns the stored snapshot document.
func (db *DB) LoadSnapshot(ctx context.Context) ([]byte, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT data FROM snapshots WHERE name = $1`, snapshotName,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return data, nil
}

// SaveSnapshot upserts the snapshot document.
func (db *DB) SaveSnapshot(ctx context.Context, data []byte) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO snapshots (name, data)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
			SET data = EXCLUDED.data, updated_at = NOW()
	`, snapshotName, data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}
