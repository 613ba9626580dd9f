// ABOUTME: Versioned schema upgrades for the blob database.
// ABOUTME: Each step runs once, in its own transaction, and records its version.
package blobstore

import (
	"context"
	"database/sql"
	"fmt"
)

// Component is the name the blob schema is versioned under.
const Component = "blobs"

// upgrades[i] brings the schema from version i to i+1. Every step must be
// safe to run against a database that already has its objects.
var upgrades = []func(ctx context.Context, tx *sql.Tx) error{
	func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS blobs (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			mime_type TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`)
		return err
	},
	func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_blobs_created ON blobs(created_at)`)
		return err
	},
}

// TargetVersion is the schema version this build writes.
var TargetVersion = int64(len(upgrades))

// SchemaVersion returns the recorded version, 0 for a new database.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var version int64
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_versions WHERE component = ?`, Component).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) upgrade(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			component TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("create versions table: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > TargetVersion {
		return fmt.Errorf("blob schema version %d is newer than supported version %d", current, TargetVersion)
	}

	for v := current; v < TargetVersion; v++ {
		next := v + 1
		if err := applyStep(ctx, db, upgrades[v], next); err != nil {
			return fmt.Errorf("upgrade blob schema to version %d: %w", next, err)
		}
		s.log.Info().Str("component", Component).Int("version", int(next)).Msg("blob schema upgraded")
		if s.onUpgrade != nil {
			s.onUpgrade(next)
		}
	}
	return nil
}

func applyStep(ctx context.Context, db *sql.DB, step func(context.Context, *sql.Tx) error, version int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := step(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_versions (component, version) VALUES (?, ?)
		ON CONFLICT(component) DO UPDATE SET version = excluded.version, updated_at = CURRENT_TIMESTAMP`,
		Component, version); err != nil {
		return err
	}
	return tx.Commit()
}
