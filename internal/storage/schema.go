// ABOUTME: SQLite schema for the primary record substrate.
// ABOUTME: One table holds every collection; seq preserves insertion order.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection, seq);
	`

	_, err := d.db.Exec(schema)
	return err
}
