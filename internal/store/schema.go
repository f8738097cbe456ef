package store

import (
	"database/sql"
	"fmt"

	"modeltron/internal/logging"
)

// Schema versions:
// v1: sessions and messages
// v2: sessions.metrics_json snapshot
const CurrentSchemaVersion = 2

// migrations[i] upgrades the schema from version i to i+1.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		model_name TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'console',
		started_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		session_id TEXT NOT NULL REFERENCES sessions(id),
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		mode TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);`,

	`ALTER TABLE sessions ADD COLUMN metrics_json TEXT NOT NULL DEFAULT ''`,
}

// migrate brings the database up to CurrentSchemaVersion using PRAGMA user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for v := version; v < len(migrations); v++ {
		logging.Store("Migrating transcript schema v%d -> v%d", v, v+1)
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration: %w", err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration to v%d failed: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record schema version %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration v%d: %w", v+1, err)
		}
	}
	return nil
}

// SchemaVersion returns the database's schema version.
func (s *TranscriptStore) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	return version, err
}
