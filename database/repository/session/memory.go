// File: database/repository/session/memory.go
package sessionRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"carbook/models"
)

type memoryEntry struct {
	session  *models.Session
	deadline time.Time
}

// MemorySessionStore is an in-process SessionStore honouring the same retention rules.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

// WithClock replaces the clock used for retention; intended for tests.
func (s *MemorySessionStore) WithClock(now func() time.Time) *MemorySessionStore {
	s.now = now
	return s
}

func (s *MemorySessionStore) Save(ctx context.Context, sess *models.Session, retain time.Duration) error {
	if err := ctx.Err(); err != nil {
		return models.Unavailable("save session", err)
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = memoryEntry{session: sess.Clone(), deadline: now.Add(keyTTL(sess, retain, now))}
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.Unavailable("load session", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !s.now().Before(e.deadline) {
		delete(s.sessions, sessionID)
		return nil, models.ErrNotFound
	}
	return e.session.Clone(), nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemorySessionStore) ListIDs(_ context.Context) ([]string, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id, e := range s.sessions {
		if now.Before(e.deadline) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemorySessionStore) Ping(context.Context) error {
	return nil
}
