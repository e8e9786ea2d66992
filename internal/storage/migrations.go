package storage

import "fmt"

// migrate runs all database migrations
func (s *SQLite) migrate() error {
	migrations := []string{
		migrationCreateKV,
		migrationCreateMeta,
		migrationSchemaVersion,
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateKV = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const migrationCreateMeta = `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT
);
`

const migrationSchemaVersion = `
INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', '1');
`
