package cache

import (
	"context"
	"sync"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
)

// MemorySessionStore keeps session histories in a process-local map.
// Histories live for the process lifetime; Clear is the only removal path.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]entities.Turn
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string][]entities.Turn),
	}
}

// Append adds turns to a session's history, creating the session on first
// use.
func (ms *MemorySessionStore) Append(_ context.Context, sessionID string, turns ...entities.Turn) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[sessionID] = append(ms.sessions[sessionID], turns...)
	return nil
}

// History returns a copy of the session's turns in append order. An unknown
// session has an empty history.
func (ms *MemorySessionStore) History(_ context.Context, sessionID string) ([]entities.Turn, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	turns := ms.sessions[sessionID]
	out := make([]entities.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear removes a session and its history.
func (ms *MemorySessionStore) Clear(_ context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, sessionID)
	return nil
}
