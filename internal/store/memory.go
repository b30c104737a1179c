// internal/store/memory.go
//
// In-memory store of active game sessions served over HTTP.
//
// Characteristics:
//   - Records are keyed by game ID in a map guarded by an RWMutex.
//   - Each record carries its own mutex; Update holds it while the callback
//     runs so one game's guesses are applied one at a time.
//   - State is lost when the process exits.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/codebreaker/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: game not found")

// ErrExists is returned when creating a game under an ID already in use.
var ErrExists = errors.New("store: game already exists")

// Record is a stored game plus the metadata the HTTP layer tracks around it.
type Record struct {
	ID        string
	Pool      string // preset name, or "custom"
	Session   *game.Session
	OwnerID   string // user ID or anonymous ID
	StartedAt time.Time
	Solved    bool
	Secret    string // revealed secret once solved
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Create adds a new record.
	Create(ctx context.Context, rec *Record) error

	// Update runs fn with exclusive access to the record.
	Update(ctx context.Context, id string, fn func(*Record) error) error

	// Len returns the number of stored games.
	Len() int
}

type entry struct {
	mu  sync.Mutex
	rec *Record
}

type memory struct {
	mu    sync.RWMutex      // guards games map
	games map[string]*entry // keyed by Record.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*entry)}
}

func (m *memory) Create(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[rec.ID]; ok {
		return ErrExists
	}
	m.games[rec.ID] = &entry{rec: rec}
	return nil
}

func (m *memory) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*Record) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.rec)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
