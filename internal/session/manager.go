package session

import (
	"context"
	"sync"
	"time"

	"yarmouktailor/backend/internal/xid"
)

// Manager serializes mutations per session. Handlers mutate session state
// through Update so two concurrent requests for the same session never
// interleave a read-modify-write.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Create starts a new session and persists its initial state.
func (m *Manager) Create(ctx context.Context) (*State, error) {
	state := NewState(xid.New("sess"))
	if err := m.store.Put(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Get returns the current state of a session.
func (m *Manager) Get(ctx context.Context, id string) (*State, error) {
	return m.store.Get(ctx, id)
}

// Update loads a session, applies fn under the session lock, and persists
// the result. When fn returns an error the state is not written back.
func (m *Manager) Update(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	lock := m.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	state, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	state.UpdatedAt = time.Now().UTC()
	if err := m.store.Put(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	defer func() {
		m.mu.Lock()
		delete(m.locks, id)
		m.mu.Unlock()
	}()
	return m.store.Delete(ctx, id)
}

// PurgeFabricSelection forwards a catalog fabric removal to the store.
func (m *Manager) PurgeFabricSelection(ctx context.Context, fabricID string) error {
	return m.store.PurgeFabricSelection(ctx, fabricID)
}

func (m *Manager) sessionLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}
