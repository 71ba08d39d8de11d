package game

import (
	"testing"

	"github.com/robalobadob/battleship/apps/go-server/internal/board"
)

func testFleet() Fleet {
	// One 2-ship at (0,0),(0,1).
	return Fleet{NewShip([]board.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}})}
}

func TestApplyShotMiss(t *testing.T) {
	fleet := testFleet()
	fired := make(map[board.Coord]bool)

	result, reveal := ApplyShot(fleet, fired, board.Coord{Row: 5, Col: 5})
	if result != ResultMiss {
		t.Fatalf("result = %q, want miss", result)
	}
	if len(reveal) != 0 {
		t.Fatalf("miss revealed cells: %v", reveal)
	}
	// History grows even on a miss.
	if !fired[(board.Coord{Row: 5, Col: 5})] {
		t.Fatalf("miss not recorded in shot history")
	}
}

func TestApplyShotRepeatMutatesNothing(t *testing.T) {
	fleet := testFleet()
	fired := make(map[board.Coord]bool)
	cell := board.Coord{Row: 0, Col: 0}

	if result, _ := ApplyShot(fleet, fired, cell); result != ResultHit {
		t.Fatalf("first shot = %q, want hit", result)
	}
	histLen, hitLen := len(fired), len(fleet[0].Hits)

	result, reveal := ApplyShot(fleet, fired, cell)
	if result != ResultRepeat {
		t.Fatalf("second shot = %q, want repeat", result)
	}
	if reveal != nil {
		t.Fatalf("repeat revealed cells: %v", reveal)
	}
	if len(fired) != histLen || len(fleet[0].Hits) != hitLen {
		t.Fatalf("repeat mutated state: history %d→%d, hits %d→%d", histLen, len(fired), hitLen, len(fleet[0].Hits))
	}
}

func TestApplyShotRepeatOnMissedCell(t *testing.T) {
	fleet := testFleet()
	fired := make(map[board.Coord]bool)
	cell := board.Coord{Row: 9, Col: 9}

	if result, _ := ApplyShot(fleet, fired, cell); result != ResultMiss {
		t.Fatalf("first shot should miss")
	}
	if result, _ := ApplyShot(fleet, fired, cell); result != ResultRepeat {
		t.Fatalf("second shot at missed cell should be repeat")
	}
}

func TestApplyShotSinkReveal(t *testing.T) {
	fleet := testFleet()
	fired := make(map[board.Coord]bool)

	// Miss next to the ship first, so one ring cell is already fired.
	already := board.Coord{Row: 1, Col: 0}
	if result, _ := ApplyShot(fleet, fired, already); result != ResultMiss {
		t.Fatalf("setup shot should miss")
	}

	if result, reveal := ApplyShot(fleet, fired, board.Coord{Row: 0, Col: 0}); result != ResultHit || len(reveal) != 0 {
		t.Fatalf("non-sinking hit: result=%q reveal=%v", result, reveal)
	}

	result, reveal := ApplyShot(fleet, fired, board.Coord{Row: 0, Col: 1})
	if result != ResultHit {
		t.Fatalf("sinking shot = %q, want hit", result)
	}
	if !fleet[0].Sunk() {
		t.Fatalf("ship not sunk after all cells hit")
	}

	// Reveal = ring minus already-fired cells: (0,2),(1,1),(1,2).
	want := map[board.Coord]bool{
		{Row: 0, Col: 2}: true,
		{Row: 1, Col: 1}: true,
		{Row: 1, Col: 2}: true,
	}
	if len(reveal) != len(want) {
		t.Fatalf("reveal = %v, want cells %v", reveal, want)
	}
	for _, c := range reveal {
		if !want[c] {
			t.Errorf("unexpected reveal cell %v", c)
		}
		if fleet.ShipAt(c) != nil {
			t.Errorf("reveal cell %v is part of a ship", c)
		}
		// Reveal cells are informational, never shots.
		if c != already && fired[c] {
			t.Errorf("reveal cell %v was added to shot history", c)
		}
	}
}

func TestSunkRequiresEveryCell(t *testing.T) {
	ship := NewShip([]board.Coord{{Row: 3, Col: 3}, {Row: 4, Col: 3}, {Row: 5, Col: 3}})
	fleet := Fleet{ship}
	fired := make(map[board.Coord]bool)

	ApplyShot(fleet, fired, board.Coord{Row: 3, Col: 3})
	ApplyShot(fleet, fired, board.Coord{Row: 5, Col: 3})
	if ship.Sunk() {
		t.Fatalf("ship sunk with only 2 of 3 cells hit")
	}
	ApplyShot(fleet, fired, board.Coord{Row: 4, Col: 3})
	if !ship.Sunk() {
		t.Fatalf("ship not sunk with all cells hit")
	}
	if !fleet.AllSunk() {
		t.Fatalf("fleet not all-sunk with its only ship sunk")
	}
}

// Shot history grows by exactly one per non-repeat call and never shrinks.
func TestShotHistoryMonotonic(t *testing.T) {
	fleet := testFleet()
	fired := make(map[board.Coord]bool)

	cells := []board.Coord{{Row: 0, Col: 0}, {Row: 4, Col: 4}, {Row: 0, Col: 0}, {Row: 4, Col: 4}, {Row: 9, Col: 0}}
	prev := 0
	for _, c := range cells {
		result, _ := ApplyShot(fleet, fired, c)
		switch result {
		case ResultRepeat:
			if len(fired) != prev {
				t.Fatalf("repeat changed history size %d→%d", prev, len(fired))
			}
		default:
			if len(fired) != prev+1 {
				t.Fatalf("non-repeat grew history by %d, want 1", len(fired)-prev)
			}
		}
		prev = len(fired)
	}
}
