// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Sessions are ephemeral by design: they live for the duration of one
// process and are lost on restart (the scoreboard is the only durable
// artifact).
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - The map itself only guards lookup/registration; mutation of a
//     session's state is serialized by the session's own mutex.
//   - ErrNotFound is returned for missing session IDs on Get().
//
// No eviction policy: acceptable for short-lived deployments, unbounded
// growth otherwise. TODO: expire sessions on inactivity once a TTL is
// agreed for hosted deployments.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/battleship/apps/go-server/internal/game"
)

// ErrNotFound is returned when a session ID has no live session.
var ErrNotFound = errors.New("game not found")

// Store defines the registry for live game sessions.
// Implementations may be backed by memory (this package) or anything
// else that can hand back the same *game.Session per ID.
type Store interface {
	// Save registers a session under its ID.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if no such session exists.
	Get(ctx context.Context, id string) (*game.Session, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by Session.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}
