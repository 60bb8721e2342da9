package game

import "sync"

// SessionStore holds live sessions for one engine. Injected so tests can
// substitute their own, and so a shared-cache variant can back it later
// without touching the engine.
type SessionStore interface {
	Get(matchID string) (*GameSession, bool)
	Put(s *GameSession)
	Delete(matchID string)
	List() []*GameSession
	Len() int
}

// memoryStore is the default in-process store: a map keyed by match id.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[string]*GameSession)}
}

func (m *memoryStore) Get(matchID string) (*GameSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[matchID]
	return s, ok
}

func (m *memoryStore) Put(s *GameSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.MatchID] = s
}

func (m *memoryStore) Delete(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, matchID)
}

func (m *memoryStore) List() []*GameSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*GameSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
