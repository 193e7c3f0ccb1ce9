// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One records table holds every collection as JSON documents.
package storage

// initSchema creates or updates the database schema.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_updated ON records(collection, updated_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}
