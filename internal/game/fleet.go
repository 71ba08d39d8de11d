// apps/go-server/internal/game/fleet.go
//
// Fleet model: ships as cell sets plus hit sets.
// A ship's shape is fixed at placement time; only its hit set grows.
// Legality (bounds/overlap/adjacency) is enforced entirely at placement
// time in placement.go, never rechecked here.

package game

import "github.com/robalobadob/battleship/apps/go-server/internal/board"

// Ship occupies a fixed set of cells and tracks which of them were hit.
type Ship struct {
	Cells map[board.Coord]bool // immutable after placement
	Hits  map[board.Coord]bool // subset of Cells, grows monotonically
}

// NewShip builds a ship from its occupied cells with no hits.
func NewShip(cells []board.Coord) *Ship {
	s := &Ship{
		Cells: make(map[board.Coord]bool, len(cells)),
		Hits:  make(map[board.Coord]bool, len(cells)),
	}
	for _, c := range cells {
		s.Cells[c] = true
	}
	return s
}

// Sunk reports whether every cell of the ship has been hit.
// Hits is only ever populated with cells of the ship, so comparing sizes
// is equivalent to comparing the sets.
func (s *Ship) Sunk() bool {
	return len(s.Hits) == len(s.Cells)
}

// Fleet is the ordered collection of ships belonging to one side.
type Fleet []*Ship

// ShipAt returns the ship occupying cell, or nil.
func (f Fleet) ShipAt(cell board.Coord) *Ship {
	for _, s := range f {
		if s.Cells[cell] {
			return s
		}
	}
	return nil
}

// AllSunk reports whether every ship in the fleet is sunk.
// An empty fleet is vacuously sunk; callers only ask during play,
// when both fleets are fully placed.
func (f Fleet) AllSunk() bool {
	for _, s := range f {
		if !s.Sunk() {
			return false
		}
	}
	return true
}

// OccupiedCells returns the union of all ship cells in the fleet.
func (f Fleet) OccupiedCells() map[board.Coord]bool {
	out := make(map[board.Coord]bool)
	for _, s := range f {
		for c := range s.Cells {
			out[c] = true
		}
	}
	return out
}
