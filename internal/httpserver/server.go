// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the Battleship backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, /game/place, /game/start, /game/fire.
//   - Scoreboard + history endpoints: GET /scoreboard, GET /games/recent.
//
// The transport stays thin: handlers decode JSON, look the session up in
// the store, call one session operation, and shape the response. All game
// truth lives in internal/game; CPU ship positions never leave the server
// except through shot outcomes.
//
// Notes:
//   - CORS is origin-aware (CLIENT_ORIGIN) and credentials-enabled.
//   - Finished games are recorded once per session via the outcome
//     callback: scoreboard first (authoritative), then the SQLite
//     history archive (best effort).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/apps/go-server/internal/board"
	"github.com/robalobadob/battleship/apps/go-server/internal/game"
	"github.com/robalobadob/battleship/apps/go-server/internal/history"
	"github.com/robalobadob/battleship/apps/go-server/internal/scoreboard"
	"github.com/robalobadob/battleship/apps/go-server/internal/store"
)

// Server bundles router, session store, scoreboard, and history archive.
type Server struct {
	r      *chi.Mux
	store  store.Store
	scores *scoreboard.Store
	hist   *history.Store // nil when the archive is disabled
}

// New constructs a Server, installs middleware, and registers routes.
// hist may be nil.
func New(st store.Store, scores *scoreboard.Store, hist *history.Store) *Server {
	s := &Server{r: chi.NewRouter(), store: st, scores: scores, hist: hist}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"battleship-go","endpoints":["/health","POST /game/new","POST /game/place","POST /game/start","POST /game/fire","GET /scoreboard","GET /games/recent"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Post("/game/place", s.handlePlace)
	s.r.Post("/game/start", s.handleStart)
	s.r.Post("/game/fire", s.handleFire)

	// --- aggregates ---
	s.r.Get("/scoreboard", s.handleScoreboard)
	s.r.Get("/games/recent", s.handleRecent)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameRes is the payload for POST /game/new.
type newGameRes struct {
	GameID   string `json:"gameId"`
	Phase    string `json:"phase"`
	NextSize int    `json:"nextSize"`
}

// handleNewGame creates a session in the setup phase. The CPU fleet is
// generated immediately and never leaves the server.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g, err := game.NewSession(rng, game.PlacementOrder, s.recordOutcome)
	if err != nil {
		log.Error().Err(err).Msg("generate cpu fleet")
		http.Error(w, `{"error":"fleet_generation_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("gameId", g.ID()).Msg("game created")
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID(), Phase: string(g.Phase()), NextSize: g.NextSize()})
}

// placeReq/Res payloads for POST /game/place.
// Row/Col are pointers so a missing or non-integral coordinate is a
// decode-time rejection, not a silent zero.
type placeReq struct {
	GameID     string `json:"gameId"`
	Row        *int   `json:"row"`
	Col        *int   `json:"col"`
	Horizontal *bool  `json:"horizontal"`
}
type placeRes struct {
	Placed      []board.Coord `json:"placed"`
	PlayerCells []board.Coord `json:"playerCells"`
	SetupDone   bool          `json:"setupDone"`
	NextSize    int           `json:"nextSize"`
}

// handlePlace places the next ship from the fixed order onto the player
// board.
func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Row == nil || req.Col == nil || req.Horizontal == nil {
		http.Error(w, `{"error":"invalid_payload"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return
	}
	res, err := g.PlaceNext(board.Coord{Row: *req.Row, Col: *req.Col}, *req.Horizontal)
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(placeRes{
		Placed:      res.Placed,
		PlayerCells: res.AllCells,
		SetupDone:   res.SetupDone,
		NextSize:    res.NextSize,
	})
}

// startReq is the payload for POST /game/start.
type startReq struct {
	GameID string `json:"gameId"`
}

// handleStart transitions a fully placed session into play.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return
	}
	if err := g.Begin(); err != nil {
		writeGameError(w, err)
		return
	}
	log.Info().Str("gameId", g.ID()).Msg("game started")
	_ = json.NewEncoder(w).Encode(map[string]string{"phase": string(game.PhasePlay)})
}

// fireReq/Res payloads for POST /game/fire.
type fireReq struct {
	GameID string `json:"gameId"`
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
}
type shotJSON struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Result string `json:"result"`
}
type fireRes struct {
	PlayerShot      *shotJSON     `json:"playerShot"`
	PlayerRingMarks []board.Coord `json:"playerRingMarks"`
	CPUShot         *shotJSON     `json:"cpuShot"`
	CPURingMarks    []board.Coord `json:"cpuRingMarks"`
	GameOver        bool          `json:"gameOver"`
	Winner          string        `json:"winner,omitempty"`
	ElapsedSeconds  int64         `json:"elapsedSeconds"`
	PlayerHits      int           `json:"playerHits"`
	PlayerMisses    int           `json:"playerMisses"`
	CPUHits         int           `json:"cpuHits"`
	CPUMisses       int           `json:"cpuMisses"`
}

// handleFire resolves one full turn.
func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	var req fireReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Row == nil || req.Col == nil {
		http.Error(w, `{"error":"invalid_coordinates"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return
	}
	res, err := g.Fire(board.Coord{Row: *req.Row, Col: *req.Col})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(toFireRes(res))
}

// toFireRes shapes a game.FireResult for the wire. Slices are always
// non-nil so clients see [] rather than null.
func toFireRes(res *game.FireResult) fireRes {
	out := fireRes{
		PlayerRingMarks: []board.Coord{},
		CPURingMarks:    []board.Coord{},
		GameOver:        res.GameOver,
		Winner:          res.Winner,
		ElapsedSeconds:  res.ElapsedSeconds,
		PlayerHits:      res.PlayerHits,
		PlayerMisses:    res.PlayerMisses,
		CPUHits:         res.CPUHits,
		CPUMisses:       res.CPUMisses,
	}
	if res.PlayerShot != nil {
		out.PlayerShot = &shotJSON{Row: res.PlayerShot.Cell.Row, Col: res.PlayerShot.Cell.Col, Result: string(res.PlayerShot.Result)}
		if len(res.PlayerShot.Reveal) > 0 {
			out.PlayerRingMarks = res.PlayerShot.Reveal
		}
	}
	if res.CPUShot != nil {
		out.CPUShot = &shotJSON{Row: res.CPUShot.Cell.Row, Col: res.CPUShot.Cell.Col, Result: string(res.CPUShot.Result)}
		if len(res.CPUShot.Reveal) > 0 {
			out.CPURingMarks = res.CPUShot.Reveal
		}
	}
	return out
}

// --------------------------- AGGREGATES ------------------------------------

// handleScoreboard returns the durable scoreboard snapshot.
// Never fails: corruption degrades to defaults inside the store.
func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.scores.Load())
}

// handleRecent returns the most recently archived games.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		_ = json.NewEncoder(w).Encode([]history.Row{})
		return
	}
	rows, err := s.hist.Recent(r.Context(), 20)
	if err != nil {
		log.Warn().Err(err).Msg("query recent games")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []history.Row{}
	}
	_ = json.NewEncoder(w).Encode(rows)
}

// ---------------------------- recording ------------------------------------

// recordOutcome is the session finalization callback: scoreboard first
// (authoritative), then the history archive. Runs once per session under
// the session mutex, so it must not call back into the session.
func (s *Server) recordOutcome(o game.Outcome) {
	if err := s.scores.Record(scoreboard.Result{
		Winner:         o.Winner,
		ElapsedSeconds: o.ElapsedSeconds,
		PlayerHits:     o.PlayerHits,
		PlayerMisses:   o.PlayerMisses,
		CPUHits:        o.CPUHits,
		CPUMisses:      o.CPUMisses,
	}); err != nil {
		log.Error().Err(err).Str("gameId", o.GameID).Msg("record scoreboard")
	}
	log.Info().
		Str("gameId", o.GameID).
		Str("winner", o.Winner).
		Int64("elapsedSeconds", o.ElapsedSeconds).
		Msg("game finished")

	if s.hist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.hist.Insert(ctx, history.Row{
		GameID:         o.GameID,
		Winner:         o.Winner,
		ElapsedSeconds: o.ElapsedSeconds,
		PlayerHits:     o.PlayerHits,
		PlayerMisses:   o.PlayerMisses,
		CPUHits:        o.CPUHits,
		CPUMisses:      o.CPUMisses,
		StartedAt:      history.Timestamp(o.StartedAt),
		FinishedAt:     history.Timestamp(o.FinishedAt),
	}); err != nil {
		log.Warn().Err(err).Str("gameId", o.GameID).Msg("archive game")
	}
}

// ------------------------------ errors -------------------------------------

// writeGameError maps game rejections onto HTTP statuses. Everything here
// is a client input error; infra failures are handled at the call sites.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrWrongPhase):
		http.Error(w, `{"error":"wrong_phase"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrSetupComplete):
		http.Error(w, `{"error":"setup_already_complete"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrSetupIncomplete):
		http.Error(w, `{"error":"setup_incomplete"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrInvalidPlacement):
		http.Error(w, `{"error":"invalid_placement"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrOutOfBounds):
		http.Error(w, `{"error":"invalid_coordinates"}`, http.StatusBadRequest)
	default:
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}
