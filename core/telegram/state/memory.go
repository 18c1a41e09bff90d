package state

import (
	"context"
	"sync"
)

type memoryStore[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]T
}

// NewMemoryStore constructs an in-memory Store. Sessions are lost on restart.
func NewMemoryStore[T any]() Store[T] {
	return &memoryStore[T]{sessions: make(map[int64]T)}
}

// Get returns the session for a user or ErrNoSession.
func (m *memoryStore[T]) Get(_ context.Context, userID int64) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if session, ok := m.sessions[userID]; ok {
		return session, nil
	}
	var zero T
	return zero, ErrNoSession
}

// Put stores the session, replacing the previous one.
func (m *memoryStore[T]) Put(_ context.Context, userID int64, session T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = session
	return nil
}

// Delete removes the entire session for a user.
func (m *memoryStore[T]) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
