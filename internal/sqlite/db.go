package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the schema.
func (db *DB) Migrate() error {
	schema := `
-- Hydration ledger: one row per local calendar day plus its entries
CREATE TABLE IF NOT EXISTS hydration_days (
    date_key TEXT PRIMARY KEY,
    daily_goal_ml INTEGER NOT NULL CHECK(daily_goal_ml > 0),
    last_prompt_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS hydration_entries (
    id TEXT PRIMARY KEY,
    date_key TEXT NOT NULL,
    amount_ml INTEGER NOT NULL CHECK(amount_ml > 0),
    logged_at TIMESTAMP NOT NULL,
    FOREIGN KEY (date_key) REFERENCES hydration_days(date_key) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_hydration_entries_day ON hydration_entries(date_key);

-- Process-wide configuration values (hydration window)
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Calendar events are owned externally; the core only reads them
CREATE TABLE IF NOT EXISTS calendar_events (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    start_at TIMESTAMP NOT NULL,
    end_at TIMESTAMP,
    all_day INTEGER NOT NULL DEFAULT 0,
    category TEXT NOT NULL DEFAULT '',
    completed INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_calendar_events_start ON calendar_events(start_at);

-- Intervention history, pruned to 7 days on every write
CREATE TABLE IF NOT EXISTS nudge_history (
    id TEXT PRIMARY KEY,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_nudge_history_created ON nudge_history(created_at);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
