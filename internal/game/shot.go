// apps/go-server/internal/game/shot.go
//
// Shot resolution: apply one shot to a fleet plus the shooter's history.
// Outcomes:
//   - "repeat": cell already fired at; nothing mutates.
//   - "miss":   cell added to history, no ship there.
//   - "hit":    cell added to history and to the ship's hit set. If that
//               sinks the ship, the ring around it (minus already-fired
//               cells) is returned as reveal marks for the UI. Reveal
//               cells are informational only; they are never added to the
//               shot history and are not shots.

package game

import "github.com/robalobadob/battleship/apps/go-server/internal/board"

// ShotResult classifies the outcome of a single shot.
type ShotResult string

const (
	ResultHit    ShotResult = "hit"
	ResultMiss   ShotResult = "miss"
	ResultRepeat ShotResult = "repeat"
)

// ApplyShot resolves a shot at cell against fleet, recording it in fired.
// The returned reveal slice is non-empty only when the shot sinks a ship.
func ApplyShot(fleet Fleet, fired map[board.Coord]bool, cell board.Coord) (ShotResult, []board.Coord) {
	if fired[cell] {
		return ResultRepeat, nil
	}
	fired[cell] = true

	ship := fleet.ShipAt(cell)
	if ship == nil {
		return ResultMiss, nil
	}

	ship.Hits[cell] = true
	if !ship.Sunk() {
		return ResultHit, nil
	}

	ring := board.Ring(ship.Cells)
	for c := range ring {
		if fired[c] {
			delete(ring, c)
		}
	}
	return ResultHit, board.Sorted(ring)
}
