package database

import (
	"context"
	"database/sql"
	"fmt"
)

// The schema is kept per dialect rather than generated: the only
// differences are the id column types and the conflict targets, and
// two readable constants beat a migration framework at this size.

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ref TEXT NOT NULL UNIQUE,
	domain TEXT NOT NULL,
	domain_group TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	tier TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS review_cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id INTEGER NOT NULL UNIQUE REFERENCES items(id),
	ease_factor REAL NOT NULL DEFAULT 2.5,
	interval_days INTEGER NOT NULL DEFAULT 0,
	repetitions INTEGER NOT NULL DEFAULT 0,
	next_review_date TEXT NOT NULL,
	last_review_date TEXT,
	total_reviews INTEGER NOT NULL DEFAULT 0,
	correct_reviews INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_review_cards_next_review ON review_cards(next_review_date);

CREATE TABLE IF NOT EXISTS difficulty_profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	domain TEXT NOT NULL,
	activity TEXT NOT NULL,
	difficulty REAL NOT NULL DEFAULT 1.0,
	consecutive_correct INTEGER NOT NULL DEFAULT 0,
	consecutive_wrong INTEGER NOT NULL DEFAULT 0,
	total_attempts INTEGER NOT NULL DEFAULT 0,
	last_updated TEXT NOT NULL,
	UNIQUE(domain, activity)
);

CREATE TABLE IF NOT EXISTS practice_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	session_type TEXT NOT NULL DEFAULT '',
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	items_learned INTEGER NOT NULL DEFAULT 0,
	items_reviewed INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_practice_log_date ON practice_log(date);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS items (
	id BIGSERIAL PRIMARY KEY,
	ref TEXT NOT NULL UNIQUE,
	domain TEXT NOT NULL,
	domain_group TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	tier TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS review_cards (
	id BIGSERIAL PRIMARY KEY,
	item_id BIGINT NOT NULL UNIQUE REFERENCES items(id),
	ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
	interval_days INTEGER NOT NULL DEFAULT 0,
	repetitions INTEGER NOT NULL DEFAULT 0,
	next_review_date TEXT NOT NULL,
	last_review_date TEXT,
	total_reviews INTEGER NOT NULL DEFAULT 0,
	correct_reviews INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_review_cards_next_review ON review_cards(next_review_date);

CREATE TABLE IF NOT EXISTS difficulty_profiles (
	id BIGSERIAL PRIMARY KEY,
	domain TEXT NOT NULL,
	activity TEXT NOT NULL,
	difficulty DOUBLE PRECISION NOT NULL DEFAULT 1.0,
	consecutive_correct INTEGER NOT NULL DEFAULT 0,
	consecutive_wrong INTEGER NOT NULL DEFAULT 0,
	total_attempts INTEGER NOT NULL DEFAULT 0,
	last_updated TEXT NOT NULL,
	UNIQUE(domain, activity)
);

CREATE TABLE IF NOT EXISTS practice_log (
	id BIGSERIAL PRIMARY KEY,
	date TEXT NOT NULL,
	session_type TEXT NOT NULL DEFAULT '',
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	items_learned INTEGER NOT NULL DEFAULT 0,
	items_reviewed INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_practice_log_date ON practice_log(date);
`

// Schema returns the DDL for the given database/sql driver name.
func Schema(driver string) (string, error) {
	switch driver {
	case "sqlite3":
		return sqliteSchema, nil
	case "pgx":
		return postgresSchema, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Migrate creates all tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema, err := Schema(driver)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
