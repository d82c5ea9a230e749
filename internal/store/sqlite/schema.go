package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
            user_id TEXT PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            creation_time TIMESTAMP NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS mood_entries (
            entry_id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            mood TEXT NOT NULL,
            note TEXT,
            mood_date TIMESTAMP NOT NULL,
            creation_time TIMESTAMP NOT NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_mood_entries_user_date ON mood_entries(user_id, mood_date DESC, creation_time DESC);`,
	`CREATE TABLE IF NOT EXISTS journal_entries (
            entry_id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            session_id TEXT NOT NULL,
            summary TEXT NOT NULL,
            creation_time TIMESTAMP NOT NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_user ON journal_entries(user_id, creation_time DESC);`,
}

// EnsureSchema creates tables and indexes when missing. Safe to call on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}
