// apps/go-server/internal/history/history.go
//
// Finished-game archive backed by SQLite.
// Informational only: the JSON scoreboard remains the authoritative
// aggregate. Inserts are best effort — callers log failures and move on;
// a broken archive never blocks gameplay.

package history

import (
	"context"
	"database/sql"
	"time"
)

// Row is one archived game.
type Row struct {
	GameID         string `json:"gameId"`
	Winner         string `json:"winner"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	PlayerHits     int    `json:"playerHits"`
	PlayerMisses   int    `json:"playerMisses"`
	CPUHits        int    `json:"cpuHits"`
	CPUMisses      int    `json:"cpuMisses"`
	StartedAt      string `json:"startedAt"`
	FinishedAt     string `json:"finishedAt"`
}

// Store wraps the games table.
type Store struct{ db *sql.DB }

// NewStore returns a Store over db. Schema setup belongs to the caller.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert archives one finished game.
// Re-inserting the same game ID is ignored (the session's record latch
// already prevents it; the constraint is belt for the schema).
func (s *Store) Insert(ctx context.Context, r Row) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games
            (id, winner, elapsed_seconds, player_hits, player_misses, cpu_hits, cpu_misses, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Winner, r.ElapsedSeconds,
		r.PlayerHits, r.PlayerMisses, r.CPUHits, r.CPUMisses,
		r.StartedAt, r.FinishedAt,
	)
	return err
}

// Recent returns the most recently finished games, newest first.
// Default limit is 20 if not specified.
func (s *Store) Recent(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, winner, elapsed_seconds, player_hits, player_misses, cpu_hits, cpu_misses, started_at, finished_at
        FROM games
        ORDER BY finished_at DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.GameID, &r.Winner, &r.ElapsedSeconds,
			&r.PlayerHits, &r.PlayerMisses, &r.CPUHits, &r.CPUMisses,
			&r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Timestamp formats a time for storage (RFC3339, UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
