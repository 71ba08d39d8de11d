// apps/go-server/internal/game/placement.go
//
// Placement validation and random fleet generation.
// Rules:
//   - Every candidate cell must be in bounds.
//   - No candidate cell may overlap an occupied cell.
//   - No candidate cell may be 8-adjacent (diagonals included) to an
//     occupied cell.
//
// Generation is retry-until-valid: draw a random anchor + orientation,
// validate, commit on the first pass. The retry cap bounds worst-case
// latency; under the standard (5,3,2) configuration on a 10×10 board a
// budget exhaustion indicates a pathological random sequence and is
// surfaced as ErrPlacementExhausted.

package game

import (
	"errors"
	"math/rand"

	"github.com/robalobadob/battleship/apps/go-server/internal/board"
)

// PlacementOrder is the fixed ship-size order for a game, largest first.
var PlacementOrder = []int{5, 3, 2}

// placementRetries caps random draws per ship during fleet generation.
const placementRetries = 4000

// ErrPlacementExhausted signals that fleet generation ran out of retry
// budget. Callers treat this as a request-level failure; a retry at the
// caller draws a fresh random sequence.
var ErrPlacementExhausted = errors.New("failed to place ships within retry budget")

// ShipCells expands a (size, anchor, orientation) placement into its
// candidate cells: size consecutive cells starting at the anchor.
// No bounds check here; CanPlace rejects out-of-range cells per cell.
func ShipCells(size int, anchor board.Coord, horizontal bool) []board.Coord {
	cells := make([]board.Coord, size)
	for i := 0; i < size; i++ {
		if horizontal {
			cells[i] = board.Coord{Row: anchor.Row, Col: anchor.Col + i}
		} else {
			cells[i] = board.Coord{Row: anchor.Row + i, Col: anchor.Col}
		}
	}
	return cells
}

// CanPlace reports whether candidate cells form a legal placement against
// the given occupied set: in bounds, no overlap, no 8-adjacency.
func CanPlace(occupied map[board.Coord]bool, cells []board.Coord) bool {
	for _, c := range cells {
		if !board.InBounds(c.Row, c.Col) {
			return false
		}
		if occupied[c] {
			return false
		}
		for _, nb := range board.Neighbors8(c) {
			if occupied[nb] {
				return false
			}
		}
	}
	return true
}

// RandomFleet generates a full fleet for the given sizes by bounded
// retry search. The random source is injected so tests can be
// deterministic.
func RandomFleet(rng *rand.Rand, sizes []int) (Fleet, error) {
	occupied := make(map[board.Coord]bool)
	fleet := make(Fleet, 0, len(sizes))

	for _, size := range sizes {
		placed := false
		for i := 0; i < placementRetries; i++ {
			horizontal := rng.Intn(2) == 0
			var anchor board.Coord
			if horizontal {
				anchor = board.Coord{Row: rng.Intn(board.N), Col: rng.Intn(board.N - size + 1)}
			} else {
				anchor = board.Coord{Row: rng.Intn(board.N - size + 1), Col: rng.Intn(board.N)}
			}
			cells := ShipCells(size, anchor, horizontal)
			if !CanPlace(occupied, cells) {
				continue
			}
			ship := NewShip(cells)
			for c := range ship.Cells {
				occupied[c] = true
			}
			fleet = append(fleet, ship)
			placed = true
			break
		}
		if !placed {
			return nil, ErrPlacementExhausted
		}
	}
	return fleet, nil
}
