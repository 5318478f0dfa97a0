package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables and indexes are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS pathway (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		title TEXT NOT NULL,
		overview TEXT NOT NULL DEFAULT '',
		goals TEXT NOT NULL DEFAULT '[]',
		suitable_for TEXT NOT NULL DEFAULT '[]',
		daily_minutes INTEGER NOT NULL DEFAULT 0,
		assigned_user_id TEXT,
		attribution TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pathway_requirement (
		pathway_id TEXT PRIMARY KEY,
		materials_required TEXT NOT NULL DEFAULT '[]',
		space_types TEXT NOT NULL DEFAULT '[]',
		time_needs TEXT NOT NULL DEFAULT '[]',
		setup_minutes INTEGER NOT NULL DEFAULT 0,
		environment_text TEXT NOT NULL DEFAULT '',
		acknowledgement_required INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (pathway_id) REFERENCES pathway(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS pathway_block (
		id TEXT PRIMARY KEY,
		pathway_id TEXT NOT NULL,
		day_number INTEGER NOT NULL,
		block_order INTEGER NOT NULL DEFAULT 0,
		time_of_day TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		instructions TEXT NOT NULL DEFAULT '[]',
		materials TEXT NOT NULL DEFAULT '[]',
		practice_type TEXT NOT NULL DEFAULT '',
		attribution TEXT NOT NULL DEFAULT 'platform',
		FOREIGN KEY (pathway_id) REFERENCES pathway(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS pathway_assignment (
		id TEXT PRIMARY KEY,
		pathway_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		materials_acknowledged INTEGER NOT NULL DEFAULT 0,
		materials_acknowledged_at TEXT,
		FOREIGN KEY (pathway_id) REFERENCES pathway(id),
		FOREIGN KEY (user_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS pathway_completed_day (
		assignment_id TEXT NOT NULL,
		day_number INTEGER NOT NULL,
		completed_at TEXT NOT NULL,
		PRIMARY KEY (assignment_id, day_number),
		FOREIGN KEY (assignment_id) REFERENCES pathway_assignment(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS intake_submission (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		date_of_birth TEXT NOT NULL DEFAULT '',
		time_of_birth TEXT NOT NULL DEFAULT '',
		place_of_birth TEXT NOT NULL DEFAULT '',
		area TEXT NOT NULL DEFAULT '',
		unclear TEXT NOT NULL DEFAULT '',
		session_type TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		is_package INTEGER NOT NULL DEFAULT 0,
		submitted_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pathway_block_pathway
		ON pathway_block(pathway_id, day_number, block_order);

	CREATE INDEX IF NOT EXISTS idx_assignment_user
		ON pathway_assignment(user_id, status);

	-- At most one active enrollment per (user, pathway). The start orchestrator
	-- also checks before inserting; the index is what holds under concurrent starts.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_assignment_active_unique
		ON pathway_assignment(pathway_id, user_id) WHERE status = 'active';
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
