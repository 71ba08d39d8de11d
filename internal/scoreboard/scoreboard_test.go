package scoreboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "scoreboard.json"))
}

func TestLoadMissingFileDefaults(t *testing.T) {
	s := newTestStore(t)
	snap := s.Load()
	if snap.GamesPlayed != 0 || snap.Wins != 0 || snap.Losses != 0 {
		t.Fatalf("missing file did not load as defaults: %+v", snap)
	}
	if snap.FastestWinSeconds != nil {
		t.Fatalf("fastest win should be nil on a fresh store")
	}
}

func TestLoadCorruptFileDefaults(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	snap := s.Load()
	if snap.GamesPlayed != 0 {
		t.Fatalf("corrupt file did not degrade to defaults: %+v", snap)
	}
	// Corruption must not block updates either.
	if err := s.Record(Result{Winner: "cpu"}); err != nil {
		t.Fatalf("Record over corrupt file: %v", err)
	}
	if got := s.Load(); got.GamesPlayed != 1 || got.Losses != 1 {
		t.Fatalf("record after corruption: %+v", got)
	}
}

func TestRecordIncrementsExactlyOneSide(t *testing.T) {
	s := newTestStore(t)

	if err := s.Record(Result{Winner: "player", ElapsedSeconds: 90, PlayerHits: 10, PlayerMisses: 4, CPUHits: 6, CPUMisses: 8}); err != nil {
		t.Fatal(err)
	}
	snap := s.Load()
	if snap.GamesPlayed != 1 || snap.Wins != 1 || snap.Losses != 0 {
		t.Fatalf("after player win: %+v", snap)
	}
	if snap.PlayerHits != 10 || snap.PlayerMisses != 4 || snap.CPUHits != 6 || snap.CPUMisses != 8 {
		t.Fatalf("counters not accumulated: %+v", snap)
	}
	if snap.FastestWinSeconds == nil || *snap.FastestWinSeconds != 90 {
		t.Fatalf("fastest win = %v, want 90", snap.FastestWinSeconds)
	}

	if err := s.Record(Result{Winner: "cpu", ElapsedSeconds: 10, PlayerHits: 3, PlayerMisses: 7, CPUHits: 10, CPUMisses: 2}); err != nil {
		t.Fatal(err)
	}
	snap = s.Load()
	if snap.GamesPlayed != 2 || snap.Wins != 1 || snap.Losses != 1 {
		t.Fatalf("after cpu win: %+v", snap)
	}
	// A loss never touches the fastest win, even with a smaller elapsed.
	if snap.FastestWinSeconds == nil || *snap.FastestWinSeconds != 90 {
		t.Fatalf("fastest win changed on a loss: %v", snap.FastestWinSeconds)
	}
}

func TestFastestWinOnlyDecreases(t *testing.T) {
	s := newTestStore(t)
	for _, elapsed := range []int64{120, 45, 200} {
		if err := s.Record(Result{Winner: "player", ElapsedSeconds: elapsed}); err != nil {
			t.Fatal(err)
		}
	}
	snap := s.Load()
	if snap.FastestWinSeconds == nil || *snap.FastestWinSeconds != 45 {
		t.Fatalf("fastest win = %v, want 45", snap.FastestWinSeconds)
	}
}

// An older file missing newer fields fills them from defaults.
func TestForwardCompatibleMerge(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.path, []byte(`{"gamesPlayed":7,"wins":3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	snap := s.Load()
	if snap.GamesPlayed != 7 || snap.Wins != 3 {
		t.Fatalf("known fields lost: %+v", snap)
	}
	if snap.Losses != 0 || snap.PlayerHits != 0 || snap.FastestWinSeconds != nil {
		t.Fatalf("missing fields not defaulted: %+v", snap)
	}
}

func TestPersistedFileIsValidJSON(t *testing.T) {
	s := newTestStore(t)
	if err := s.Record(Result{Winner: "player", ElapsedSeconds: 30}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("scoreboard file not written: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("persisted file not valid JSON: %v", err)
	}
	if snap.Wins != 1 {
		t.Fatalf("persisted snapshot: %+v", snap)
	}

	// No temp files left behind after the atomic replace.
	entries, err := os.ReadDir(filepath.Dir(s.path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(s.path) {
			t.Fatalf("stray file after write: %s", e.Name())
		}
	}
}

// Concurrent finalizations must not lose updates.
func TestConcurrentRecords(t *testing.T) {
	s := newTestStore(t)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		winner := "player"
		if i%2 == 1 {
			winner = "cpu"
		}
		go func(winner string) {
			defer wg.Done()
			if err := s.Record(Result{Winner: winner, ElapsedSeconds: 60, PlayerHits: 1}); err != nil {
				t.Errorf("Record: %v", err)
			}
		}(winner)
	}
	wg.Wait()

	snap := s.Load()
	if snap.GamesPlayed != n {
		t.Fatalf("games played = %d, want %d", snap.GamesPlayed, n)
	}
	if snap.Wins != n/2 || snap.Losses != n/2 {
		t.Fatalf("wins/losses = %d/%d, want %d/%d", snap.Wins, snap.Losses, n/2, n/2)
	}
	if snap.PlayerHits != n {
		t.Fatalf("player hits = %d, want %d", snap.PlayerHits, n)
	}
}
