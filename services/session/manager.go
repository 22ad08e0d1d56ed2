// File: services/session/manager.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (m *DefaultSessionManager) clock() time.Time {
	return m.Now().UTC()
}

// storeCtx bounds a single storage call.
func (m *DefaultSessionManager) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.Config.Timeout)
}

// lockSession waits for the session lock. A holder runs at most a load, a commit and a
// save, each bounded by the storage timeout, so waiting longer than that means a stall.
func (m *DefaultSessionManager) lockSession(ctx context.Context, sessionID string) (func(), error) {
	wctx, cancel := context.WithTimeout(ctx, 3*m.Config.Timeout)
	defer cancel()
	return m.locks.LockContext(wctx, sessionID)
}

// CreateSession allocates a new session in CONTINUE with an absolute expiry of now + TTL.
func (m *DefaultSessionManager) CreateSession(ctx context.Context, userID string) (*models.Session, error) {
	now := m.clock()
	sess := &models.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		Status:         models.StatusContinue,
		CreatedAt:      now,
		ExpiresAt:      now.Add(m.Config.TTL),
		LastActivityAt: now,
	}

	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.Store.Save(sctx, sess, m.Config.Retention); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	m.Logger.Info("Session created",
		zap.String("sessionID", sess.SessionID),
		zap.Time("expiresAt", sess.ExpiresAt))
	return sess, nil
}

// load fetches a session and applies the expiry check. Callers must hold the session lock
// when the result feeds a write.
func (m *DefaultSessionManager) load(ctx context.Context, sessionID string) (*models.Session, error) {
	sctx, cancel := m.storeCtx(ctx)
	defer cancel()

	sess, err := m.Store.Get(sctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.clock()) {
		m.Logger.Debug("Session expired",
			zap.String("sessionID", sessionID),
			zap.Time("expiresAt", sess.ExpiresAt))
		return nil, models.ErrExpired
	}
	return sess, nil
}

// GetSession returns models.ErrNotFound for unknown ids and models.ErrExpired once
// now >= expires_at.
func (m *DefaultSessionManager) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return m.load(ctx, sessionID)
}

// UpdateSession applies mutate under the session lock and persists the result.
// Terminal sessions are rejected with models.ErrTerminal and left untouched.
func (m *DefaultSessionManager) UpdateSession(ctx context.Context, sessionID string, mutate Mutator) (*models.Session, error) {
	unlock, err := m.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, fmt.Errorf("session %s is %s: %w", sessionID, current.Status, models.ErrTerminal)
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	// identity and creation metadata are not mutable
	next.SessionID = current.SessionID
	next.CreatedAt = current.CreatedAt

	now := m.clock()
	next.LastActivityAt = now
	if m.Config.Sliding && !next.Status.IsTerminal() {
		next.ExpiresAt = now.Add(m.Config.TTL)
	} else {
		next.ExpiresAt = current.ExpiresAt
	}

	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.Store.Save(sctx, next, m.Config.Retention); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return next, nil
}

// DeleteSession removes the session. Deleting an absent session succeeds.
func (m *DefaultSessionManager) DeleteSession(ctx context.Context, sessionID string) error {
	unlock, err := m.lockSession(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	sctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.Store.Delete(sctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	m.Logger.Info("Session deleted", zap.String("sessionID", sessionID))
	return nil
}

// Status reports the public view of a session. Unknown and expired sessions come back
// with IsValid false rather than an error.
func (m *DefaultSessionManager) Status(ctx context.Context, sessionID string) (*models.SessionStatus, error) {
	sess, err := m.load(ctx, sessionID)
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrExpired) {
		return &models.SessionStatus{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}
	status := StatusOf(sess)
	status.History = append([]models.TurnRecord(nil), sess.History...)
	return status, nil
}

// ListActiveSessions returns every unexpired session known to the store.
func (m *DefaultSessionManager) ListActiveSessions(ctx context.Context) ([]models.SessionStatus, error) {
	sctx, cancel := m.storeCtx(ctx)
	ids, err := m.Store.ListIDs(sctx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]models.SessionStatus, 0, len(ids))
	for _, id := range ids {
		sess, err := m.load(ctx, id)
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrExpired) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *StatusOf(sess))
	}
	return out, nil
}

func (m *DefaultSessionManager) Ping(ctx context.Context) error {
	return m.Store.Ping(ctx)
}

// StatusOf builds the public view of a live session.
func StatusOf(sess *models.Session) *models.SessionStatus {
	expires := sess.ExpiresAt
	slots := sess.Slots.Clone()
	return &models.SessionStatus{
		SessionID:     sess.SessionID,
		IsValid:       true,
		Status:        sess.Status.String(),
		ExpiresAt:     &expires,
		Slots:         &slots,
		UserID:        sess.UserID,
		MissingSlots:  sess.Draft().Missing(),
		ReservationID: sess.ReservationID,
		TurnCount:     sess.TurnCount,
	}
}
