package session

import (
	"context"
	"sync"

	"leadbot/internal/flow"
)

// MemoryStore keeps sessions in process memory. Everything is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]flow.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]flow.Session),
	}
}

func (m *MemoryStore) Get(_ context.Context, userID int64) (flow.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[userID]
	return sess, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, userID int64, sess flow.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = sess
	return nil
}

// Len returns the number of users with a session.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
