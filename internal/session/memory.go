package session

import (
	"context"
	"sync"
	"time"

	"yarmouktailor/backend/internal/domain"
	"yarmouktailor/backend/internal/store"
)

type memoryEntry struct {
	state     *State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expiry is lazy: expired
// entries are dropped when touched and swept opportunistically on Put.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*State, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, store.ErrNotFound
	}
	return cloneState(entry.state), nil
}

func (m *MemoryStore) Put(_ context.Context, state *State) error {
	clone := cloneState(state)
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for id, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
	m.sessions[state.ID] = memoryEntry{state: clone, expiresAt: now.Add(m.ttl)}
	return nil
}

// cloneState copies the state deeply enough that callers can mutate the
// result without touching the stored version.
func cloneState(state *State) *State {
	clone := *state
	if state.Spec.Measurements != nil {
		clone.Spec.Measurements = make(map[string]string, len(state.Spec.Measurements))
		for k, v := range state.Spec.Measurements {
			clone.Spec.Measurements[k] = v
		}
	}
	if state.Cart != nil {
		clone.Cart = append([]domain.CartLine(nil), state.Cart...)
	}
	return &clone
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) PurgeFabricSelection(_ context.Context, fabricID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.sessions {
		if entry.state.SelectedFabricID == fabricID {
			entry.state.SelectedFabricID = ""
		}
	}
	return nil
}
