package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carbook/config"
	sessionRepo "carbook/database/repository/session"
	"carbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newManager(t *testing.T, sliding bool) (*DefaultSessionManager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)}
	store := sessionRepo.NewMemorySessionStore().WithClock(clock.Now)
	m := NewSessionManager(store, config.SessionConfig{
		TTL:       time.Hour,
		Sliding:   sliding,
		Retention: 10 * time.Minute,
		Timeout:   time.Second,
	})
	m.Now = clock.Now
	m.Logger = zap.NewNop()
	return m, clock
}

func TestCreateAndGet(t *testing.T) {
	m, clock := newManager(t, false)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.SessionID)
	assert.Equal(t, models.StatusContinue, sess.Status)
	assert.Equal(t, clock.Now().Add(time.Hour), sess.ExpiresAt)

	got, err := m.GetSession(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, got.SessionID)

	_, err = m.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetAfterExpiry(t *testing.T) {
	m, clock := newManager(t, false)
	ctx := context.Background()
	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = m.GetSession(ctx, sess.SessionID)
	assert.ErrorIs(t, err, models.ErrExpired)

	status, err := m.Status(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.False(t, status.IsValid)

	// past retention the record is gone entirely
	clock.Advance(11 * time.Minute)
	_, err = m.GetSession(ctx, sess.SessionID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateFixedTTL(t *testing.T) {
	m, clock := newManager(t, false)
	ctx := context.Background()
	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	updated, err := m.UpdateSession(ctx, sess.SessionID, func(s *models.Session) error {
		s.SetDraft(s.Draft().Merge(models.SlotDelta{VehicleID: strPtr("car_001")}))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "car_001", updated.Slots.VehicleID)
	assert.Equal(t, sess.ExpiresAt, updated.ExpiresAt)
	assert.Equal(t, clock.Now(), updated.LastActivityAt)
}

func TestUpdateSlidingTTL(t *testing.T) {
	m, clock := newManager(t, true)
	ctx := context.Background()
	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	clock.Advance(45 * time.Minute)
	updated, err := m.UpdateSession(ctx, sess.SessionID, func(*models.Session) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), updated.ExpiresAt)
}

func TestUpdateTerminalRejected(t *testing.T) {
	m, _ := newManager(t, false)
	ctx := context.Background()
	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	_, err = m.UpdateSession(ctx, sess.SessionID, func(s *models.Session) error {
		s.Status = models.StatusReservationComplete
		s.ReservationID = "res-1"
		return nil
	})
	require.NoError(t, err)

	called := false
	_, err = m.UpdateSession(ctx, sess.SessionID, func(s *models.Session) error {
		called = true
		s.Slots.VehicleID = "car_002"
		return nil
	})
	assert.ErrorIs(t, err, models.ErrTerminal)
	assert.False(t, called)

	got, err := m.GetSession(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReservationComplete, got.Status)
	assert.Empty(t, got.Slots.VehicleID)
}

func TestMutatorErrorDiscardsChange(t *testing.T) {
	m, _ := newManager(t, false)
	ctx := context.Background()
	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.UpdateSession(ctx, sess.SessionID, func(s *models.Session) error {
		s.Slots.VehicleID = "car_002"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := m.GetSession(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Empty(t, got.Slots.VehicleID)
}

func TestConcurrentUpdatesSerialized(t *testing.T) {
	m, _ := newManager(t, false)
	ctx := context.Background()
	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.UpdateSession(ctx, sess.SessionID, func(s *models.Session) error {
				s.RecordTurn(models.TurnRecord{Intent: models.IntentProvideInfo})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.GetSession(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, turns, got.TurnCount)
}

func TestDeleteIdempotentAndList(t *testing.T) {
	m, _ := newManager(t, false)
	ctx := context.Background()
	a, err := m.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	b, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	active, err := m.ListActiveSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	require.NoError(t, m.DeleteSession(ctx, a.SessionID))
	require.NoError(t, m.DeleteSession(ctx, a.SessionID))

	active, err = m.ListActiveSessions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.SessionID, active[0].SessionID)
	assert.Equal(t, []models.SlotName{models.SlotVehicleID, models.SlotStartAt, models.SlotEndAt, models.SlotUserID}, active[0].MissingSlots)
}

func strPtr(s string) *string { return &s }

func TestQueuedUpdateGivesUpWithContext(t *testing.T) {
	m, _ := newManager(t, false)
	ctx := context.Background()
	sess, err := m.CreateSession(ctx, "")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := m.UpdateSession(ctx, sess.SessionID, func(s *models.Session) error {
			close(entered)
			<-release
			s.UserID = "first"
			return nil
		})
		done <- err
	}()
	<-entered

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = m.UpdateSession(waitCtx, sess.SessionID, func(s *models.Session) error {
		s.UserID = "second"
		return nil
	})
	assert.ErrorIs(t, err, models.ErrUnavailable)

	close(release)
	require.NoError(t, <-done)
	got, err := m.GetSession(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.UserID)
}
