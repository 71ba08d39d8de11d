// apps/go-server/db.go
//
// Database helpers for the Battleship Go server.
// Responsibilities:
//   - Opening the SQLite database with safe defaults (WAL, busy timeout,
//     foreign keys).
//   - Bootstrapping the games schema (idempotent).
//
// The database only backs the finished-game history archive; the durable
// scoreboard lives in its own JSON file (internal/scoreboard).

package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// openDB opens (and creates if missing) a SQLite database file.
//
//   - Ensures the parent directory exists for relative DSNs (e.g. ./data/app.db).
//   - Configures busy timeout and WAL journaling mode.
//   - Enforces foreign keys.
func openDB(dsn string) (*sql.DB, error) {
	// Ensure directory exists for ./data/app.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// Open DB with busy timeout and WAL journaling.
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Explicitly enforce foreign keys + WAL.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// ensureSchema creates the games table if it does not exist.
// One table, so a full migration runner would be overkill; revisit if the
// schema ever grows.
func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS games (
            id              TEXT PRIMARY KEY,
            winner          TEXT NOT NULL,
            elapsed_seconds INTEGER NOT NULL,
            player_hits     INTEGER NOT NULL,
            player_misses   INTEGER NOT NULL,
            cpu_hits        INTEGER NOT NULL,
            cpu_misses      INTEGER NOT NULL,
            started_at      TEXT NOT NULL,
            finished_at     TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_games_finished_at ON games(finished_at DESC);`)
	if err != nil {
		return fmt.Errorf("create games schema: %w", err)
	}
	return nil
}
