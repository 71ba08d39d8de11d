// apps/go-server/internal/board/board.go
//
// Board geometry for the battleship grid.
// Pure functions over a fixed N×N coordinate space:
//   - Bounds checking.
//   - 8-directional (Chebyshev distance 1) neighbor enumeration.
//   - "Ring" computation around a cell set, used for sunk-ship reveals.
//
// Nothing in this package holds state; all operations work on values.
package board

import "sort"

// N is the board dimension. Both axes run [0, N).
const N = 10

// Coord is a 0-indexed (row, column) pair on the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether (r, c) lies on the board.
func InBounds(r, c int) bool {
	return r >= 0 && r < N && c >= 0 && c < N
}

// Neighbors8 returns the up-to-8 in-bounds cells adjacent to cell,
// including diagonals.
func Neighbors8(cell Coord) []Coord {
	out := make([]Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			rr, cc := cell.Row+dr, cell.Col+dc
			if InBounds(rr, cc) {
				out = append(out, Coord{Row: rr, Col: cc})
			}
		}
	}
	return out
}

// Ring returns the set of in-bounds cells 8-adjacent to any cell in cells
// but not themselves members of cells.
func Ring(cells map[Coord]bool) map[Coord]bool {
	ring := make(map[Coord]bool)
	for cell := range cells {
		for _, nb := range Neighbors8(cell) {
			if !cells[nb] {
				ring[nb] = true
			}
		}
	}
	return ring
}

// Sorted converts a cell set into a slice ordered by row then column.
// Map iteration order is random; responses and tests want stable output.
func Sorted(cells map[Coord]bool) []Coord {
	out := make([]Coord, 0, len(cells))
	for c := range cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
