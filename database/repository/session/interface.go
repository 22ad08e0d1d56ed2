// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"
	"time"

	"carbook/models"
)

// SessionStore persists conversation sessions. Get returns models.ErrNotFound when
// the record is absent; storage failures wrap models.ErrUnavailable.
type SessionStore interface {
	// Save writes s and keeps it retrievable until ExpiresAt plus retain.
	Save(ctx context.Context, s *models.Session, retain time.Duration) error
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	// Delete is idempotent.
	Delete(ctx context.Context, sessionID string) error
	ListIDs(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// keyTTL is how long the backing record lives at now.
func keyTTL(s *models.Session, retain time.Duration, now time.Time) time.Duration {
	ttl := s.ExpiresAt.Sub(now) + retain
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}
