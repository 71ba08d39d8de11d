// apps/go-server/internal/scoreboard/scoreboard.go
//
// Durable cross-session scoreboard.
// One JSON file holds the aggregate: games played, wins, losses, the four
// cumulative shot counters, and the fastest player win in seconds.
//
// Durability discipline:
//   - A single process-wide mutex spans every read-modify-write cycle, so
//     concurrent finalizations from different games cannot interleave.
//   - Writes go to a temp file in the same directory followed by an
//     atomic rename, so a crash mid-write never leaves a torn file.
//   - A missing or unparseable file reads as a fresh all-zero scoreboard;
//     corruption must never block gameplay. Fields absent from an older
//     file fill in with zero values on decode.

package scoreboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Snapshot is the full scoreboard state as stored on disk and returned
// to clients.
type Snapshot struct {
	GamesPlayed  int `json:"gamesPlayed"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	PlayerHits   int `json:"playerHits"`
	PlayerMisses int `json:"playerMisses"`
	CPUHits      int `json:"cpuHits"`
	CPUMisses    int `json:"cpuMisses"`

	// FastestWinSeconds is nil until the first player win.
	FastestWinSeconds *int64 `json:"fastestWinSeconds"`
}

// Result carries what one finished game contributes to the scoreboard.
type Result struct {
	Winner         string // "player" or "cpu"
	ElapsedSeconds int64
	PlayerHits     int
	PlayerMisses   int
	CPUHits        int
	CPUMisses      int
}

// Store reads and updates the scoreboard file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a Store backed by the JSON file at path.
// The file is created on first Record.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the current scoreboard. A missing or corrupt file degrades
// to defaults; Load never fails.
func (s *Store) Load() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Record folds one finished game into the scoreboard and persists it.
// Safe for concurrent callers; the whole read-modify-write-replace cycle
// runs under the store mutex.
func (s *Store) Record(r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.readLocked()
	snap.GamesPlayed++
	if r.Winner == "player" {
		snap.Wins++
		if snap.FastestWinSeconds == nil || r.ElapsedSeconds < *snap.FastestWinSeconds {
			elapsed := r.ElapsedSeconds
			snap.FastestWinSeconds = &elapsed
		}
	} else {
		snap.Losses++
	}
	snap.PlayerHits += r.PlayerHits
	snap.PlayerMisses += r.PlayerMisses
	snap.CPUHits += r.CPUHits
	snap.CPUMisses += r.CPUMisses

	return s.writeLocked(snap)
}

// readLocked loads the file, substituting defaults on any failure.
// Callers hold s.mu.
func (s *Store) readLocked() Snapshot {
	var snap Snapshot
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("read scoreboard; using defaults")
		}
		return snap
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("corrupt scoreboard; using defaults")
		return Snapshot{}
	}
	return snap
}

// writeLocked persists via temp-file + atomic rename. Callers hold s.mu.
func (s *Store) writeLocked(snap Snapshot) error {
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scoreboard: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scoreboard-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp scoreboard: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp scoreboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp scoreboard: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace scoreboard: %w", err)
	}
	return nil
}
