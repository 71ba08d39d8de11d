// apps/go-server/internal/game/cpu.go
//
// CPU shot selection. Deliberately the simplest correct policy: draw
// uniformly at random until an unfired cell comes up. A smarter policy
// can be dropped in behind the same contract (sample an unfired cell)
// without touching any other component.

package game

import (
	"math/rand"

	"github.com/robalobadob/battleship/apps/go-server/internal/board"
)

// PickShot returns a cell the CPU has not fired at yet.
// The shot history can never cover the whole board while a game is live
// (a full history implies every player ship cell was hit), so the loop
// terminates.
func PickShot(rng *rand.Rand, fired map[board.Coord]bool) board.Coord {
	for {
		cell := board.Coord{Row: rng.Intn(board.N), Col: rng.Intn(board.N)}
		if !fired[cell] {
			return cell
		}
	}
}
