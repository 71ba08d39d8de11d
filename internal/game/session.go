// apps/go-server/internal/game/session.go
//
// Session state machine for one game.
// Lifecycle: setup → play → over.
//   - setup: the player places ships one at a time in PlacementOrder;
//     the CPU fleet is generated randomly at session creation. Begin is
//     rejected until every ship is placed.
//   - play: each Fire resolves the player's shot against the CPU fleet,
//     then (unless the shot was a repeat or won the game) lets the CPU
//     fire back. Win checks run after each side's shot.
//   - over: terminal. Further Fire calls return the stored outcome
//     without resolving anything.
//
// Every exported operation takes the session mutex for its full duration,
// so overlapping calls on one session serialize; different sessions never
// contend. Finalization (the outcome recording callback) runs exactly
// once per session, guarded by a latch, lazily if necessary.

package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/battleship/apps/go-server/internal/board"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseSetup Phase = "setup"
	PhasePlay  Phase = "play"
	PhaseOver  Phase = "over"
)

// Winner side labels as reported to clients and the scoreboard.
const (
	WinnerPlayer = "player"
	WinnerCPU    = "cpu"
)

var (
	ErrWrongPhase       = errors.New("operation not valid in current phase")
	ErrSetupComplete    = errors.New("all ships already placed")
	ErrSetupIncomplete  = errors.New("ship placement incomplete")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrOutOfBounds      = errors.New("coordinates out of bounds")
)

// Outcome summarizes one finished game for cross-session recording.
type Outcome struct {
	GameID         string
	Winner         string
	ElapsedSeconds int64
	PlayerHits     int
	PlayerMisses   int
	CPUHits        int
	CPUMisses      int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// RecordFunc receives the outcome of a finished session exactly once.
// Implementations must not call back into the session.
type RecordFunc func(Outcome)

// Session is the aggregate root for a single game.
type Session struct {
	mu sync.Mutex

	id    string
	phase Phase

	order      []int // fixed placement order, largest first
	setupIndex int   // next index into order to place

	playerFleet Fleet
	cpuFleet    Fleet

	playerFired map[board.Coord]bool // player shots into the CPU board
	cpuFired    map[board.Coord]bool // CPU shots into the player board

	playerHits, playerMisses int
	cpuHits, cpuMisses       int

	startedAt      time.Time
	finishedAt     time.Time
	elapsedSeconds int64
	winner         string
	statsRecorded  bool

	rng    *rand.Rand
	record RecordFunc
}

// NewSession creates a session in the setup phase with an empty player
// fleet and a randomly generated CPU fleet. The random source drives both
// CPU fleet generation and CPU shot selection and is injected for
// deterministic tests; record may be nil.
func NewSession(rng *rand.Rand, order []int, record RecordFunc) (*Session, error) {
	cpuFleet, err := RandomFleet(rng, order)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:          uuid.NewString(),
		phase:       PhaseSetup,
		order:       append([]int(nil), order...),
		playerFired: make(map[board.Coord]bool),
		cpuFired:    make(map[board.Coord]bool),
		cpuFleet:    cpuFleet,
		rng:         rng,
		record:      record,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// NextSize returns the size of the next ship to place, or 0 when setup
// is complete.
func (s *Session) NextSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSizeLocked()
}

func (s *Session) nextSizeLocked() int {
	if s.setupIndex >= len(s.order) {
		return 0
	}
	return s.order[s.setupIndex]
}

// PlaceResult reports the effect of a successful placement.
type PlaceResult struct {
	Placed    []board.Coord // cells of the ship just placed
	AllCells  []board.Coord // every player ship cell so far
	SetupDone bool
	NextSize  int // 0 once setup is done
}

// PlaceNext places the next ship from the placement order at the given
// anchor and orientation. The candidate is validated against the player's
// current occupied cells on every call, since the occupied set grows as
// ships are placed. Rejections leave the session untouched.
func (s *Session) PlaceNext(anchor board.Coord, horizontal bool) (*PlaceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSetup {
		return nil, ErrWrongPhase
	}
	if s.setupIndex >= len(s.order) {
		return nil, ErrSetupComplete
	}

	size := s.order[s.setupIndex]
	cells := ShipCells(size, anchor, horizontal)
	if !CanPlace(s.playerFleet.OccupiedCells(), cells) {
		return nil, ErrInvalidPlacement
	}

	ship := NewShip(cells)
	s.playerFleet = append(s.playerFleet, ship)
	s.setupIndex++

	return &PlaceResult{
		Placed:    board.Sorted(ship.Cells),
		AllCells:  board.Sorted(s.playerFleet.OccupiedCells()),
		SetupDone: s.setupIndex >= len(s.order),
		NextSize:  s.nextSizeLocked(),
	}, nil
}

// Begin transitions from setup to play, stamping the start time.
// Rejected while any ship remains unplaced.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSetup {
		return ErrWrongPhase
	}
	if s.setupIndex < len(s.order) {
		return ErrSetupIncomplete
	}
	s.phase = PhasePlay
	s.startedAt = time.Now()
	return nil
}

// ShotReport describes one resolved shot.
type ShotReport struct {
	Cell   board.Coord
	Result ShotResult
	Reveal []board.Coord // ring marks when the shot sank a ship
}

// FireResult is the full outcome of one Fire call.
type FireResult struct {
	PlayerShot *ShotReport // nil when replaying a finished game
	CPUShot    *ShotReport // nil on repeat, on player win, or after game end

	GameOver bool
	Winner   string

	ElapsedSeconds int64
	PlayerHits     int
	PlayerMisses   int
	CPUHits        int
	CPUMisses      int
}

// Fire resolves one full turn: the player's shot, then — unless the shot
// was a repeat or ended the game — the CPU's reply. In the over phase it
// returns the stored outcome without resolving any new shot.
func (s *Session) Fire(cell board.Coord) (*FireResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseOver {
		// Lazy finalization covers any path that reached over without
		// recording; the latch makes it a no-op otherwise.
		s.finalizeLocked()
		res := s.summaryLocked()
		res.GameOver = true
		res.Winner = s.winner
		return res, nil
	}
	if s.phase != PhasePlay {
		return nil, ErrWrongPhase
	}
	if !board.InBounds(cell.Row, cell.Col) {
		return nil, ErrOutOfBounds
	}

	result, reveal := ApplyShot(s.cpuFleet, s.playerFired, cell)
	switch result {
	case ResultHit:
		s.playerHits++
	case ResultMiss:
		s.playerMisses++
	case ResultRepeat:
		// Repeat short-circuits the turn: no counters, no CPU shot.
		res := s.summaryLocked()
		res.PlayerShot = &ShotReport{Cell: cell, Result: ResultRepeat}
		return res, nil
	}

	playerShot := &ShotReport{Cell: cell, Result: result, Reveal: reveal}

	if s.cpuFleet.AllSunk() {
		s.finishLocked(WinnerPlayer)
		res := s.summaryLocked()
		res.PlayerShot = playerShot
		res.GameOver = true
		res.Winner = s.winner
		return res, nil
	}

	cpuCell := PickShot(s.rng, s.cpuFired)
	cpuResult, cpuReveal := ApplyShot(s.playerFleet, s.cpuFired, cpuCell)
	switch cpuResult {
	case ResultHit:
		s.cpuHits++
	case ResultMiss:
		s.cpuMisses++
	}
	cpuShot := &ShotReport{Cell: cpuCell, Result: cpuResult, Reveal: cpuReveal}

	res := s.summaryLocked()
	res.PlayerShot = playerShot
	res.CPUShot = cpuShot

	if s.playerFleet.AllSunk() {
		s.finishLocked(WinnerCPU)
		res.ElapsedSeconds = s.elapsedSeconds
		res.GameOver = true
		res.Winner = s.winner
	}
	return res, nil
}

// summaryLocked snapshots counters and elapsed time. Callers hold s.mu.
func (s *Session) summaryLocked() *FireResult {
	elapsed := s.elapsedSeconds
	if s.phase != PhaseOver && !s.startedAt.IsZero() {
		elapsed = int64(time.Since(s.startedAt) / time.Second)
	}
	return &FireResult{
		ElapsedSeconds: elapsed,
		PlayerHits:     s.playerHits,
		PlayerMisses:   s.playerMisses,
		CPUHits:        s.cpuHits,
		CPUMisses:      s.cpuMisses,
	}
}

// finishLocked transitions to over, freezing winner and elapsed time,
// then records the outcome. Callers hold s.mu.
func (s *Session) finishLocked(winner string) {
	s.phase = PhaseOver
	s.winner = winner
	s.finishedAt = time.Now()
	s.elapsedSeconds = int64(s.finishedAt.Sub(s.startedAt) / time.Second)
	if s.elapsedSeconds < 0 {
		s.elapsedSeconds = 0
	}
	s.finalizeLocked()
}

// finalizeLocked invokes the recording callback exactly once.
func (s *Session) finalizeLocked() {
	if s.statsRecorded || s.phase != PhaseOver {
		return
	}
	s.statsRecorded = true
	if s.record == nil {
		return
	}
	s.record(Outcome{
		GameID:         s.id,
		Winner:         s.winner,
		ElapsedSeconds: s.elapsedSeconds,
		PlayerHits:     s.playerHits,
		PlayerMisses:   s.playerMisses,
		CPUHits:        s.cpuHits,
		CPUMisses:      s.cpuMisses,
		StartedAt:      s.startedAt,
		FinishedAt:     s.finishedAt,
	})
}
