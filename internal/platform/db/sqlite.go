package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Open initializes the SQLite database at path using database/sql.
// The scheduler treats this store as the single source of truth, so
// WAL and a busy timeout are enabled to keep concurrent callbacks safe.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	dsn := path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			username TEXT,
			fullname TEXT,
			role TEXT DEFAULT 'user',
			invited_friends INTEGER DEFAULT 0,
			referrer_id INTEGER DEFAULT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS giveaways (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			winners_count INTEGER NOT NULL,
			announcement_date TEXT NOT NULL,
			channel_id INTEGER NOT NULL,
			winners_ids TEXT DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS participants (
			giveaway_id INTEGER,
			user_id INTEGER,
			PRIMARY KEY (giveaway_id, user_id),
			FOREIGN KEY (giveaway_id) REFERENCES giveaways(id),
			FOREIGN KEY (user_id) REFERENCES users(user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS channels (
			channel_id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			added_date TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range statements {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
