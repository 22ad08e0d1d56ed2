package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"carbook/config"
	reservationRepo "carbook/database/repository/reservation"
	sessionRepo "carbook/database/repository/session"
	vehicleRepo "carbook/database/repository/vehicle"
	"carbook/models"
	"carbook/services/conversation"
	"carbook/services/reservation"
	"carbook/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	chat     *DefaultChatService
	sessions *session.DefaultSessionManager
	repo     *reservationRepo.MemoryReservationRepo
	now      time.Time
}

func (h *harness) clock() time.Time { return h.now }

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{now: time.Date(2030, 2, 1, 8, 0, 0, 0, time.UTC)}

	store := sessionRepo.NewMemorySessionStore().WithClock(h.clock)
	h.sessions = session.NewSessionManager(store, config.SessionConfig{
		TTL: time.Hour, Retention: 10 * time.Minute, Timeout: time.Second,
	})
	h.sessions.Now = h.clock
	h.sessions.Logger = zap.NewNop()

	vehicles, err := vehicleRepo.DefaultCatalogue()
	require.NoError(t, err)
	h.repo = reservationRepo.NewMemoryReservationRepo()
	reservations := reservation.NewReservationService(h.repo, vehicleRepo.NewMemoryVehicleRepo(vehicles...), time.Second)
	reservations.Logger = zap.NewNop()

	h.chat = NewChatService(h.sessions, reservations, conversation.New(conversation.DefaultPolicy()))
	h.chat.Now = h.clock
	h.chat.Logger = zap.NewNop()
	return h
}

func (h *harness) newSession(t *testing.T) string {
	t.Helper()
	sess, err := h.sessions.CreateSession(context.Background(), "")
	require.NoError(t, err)
	return sess.SessionID
}

func ptr[T any](v T) *T { return &v }

func at(hour int) *time.Time {
	return ptr(time.Date(2030, 2, 10, hour, 0, 0, 0, time.UTC))
}

func fullDelta(user, vehicle string, start, end int) models.SlotDelta {
	return models.SlotDelta{UserID: ptr(user), VehicleID: ptr(vehicle), StartAt: at(start), EndAt: at(end)}
}

func provide(id string, d models.SlotDelta) models.ChatIn {
	return models.ChatIn{SessionID: id, Intent: models.IntentProvideInfo, Slots: d}
}

func TestScenarioCompleteInOneTurn(t *testing.T) {
	h := newHarness(t)
	id := h.newSession(t)

	out, err := h.chat.ProcessTurn(context.Background(), provide(id, fullDelta("u1", "car_001", 10, 14)))
	require.NoError(t, err)
	assert.Equal(t, models.StatusReservationComplete, out.Status)
	assert.Empty(t, out.MissingSlots)
	require.NotEmpty(t, out.ReservationID)
	assert.Contains(t, out.Response, out.ReservationID)

	res, err := h.repo.GetByID(context.Background(), out.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "car_001", res.VehicleID)
	assert.True(t, res.StartAt.Equal(*at(10)))
	assert.True(t, res.EndAt.Equal(*at(14)))
	assert.Equal(t, id, res.SessionID)
}

func TestScenarioConflictClearsVehicle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := h.newSession(t)
	_, err := h.chat.ProcessTurn(ctx, provide(first, fullDelta("u1", "car_001", 10, 14)))
	require.NoError(t, err)

	second := h.newSession(t)
	out, err := h.chat.ProcessTurn(ctx, provide(second, fullDelta("u2", "car_001", 12, 16)))
	require.NoError(t, err)
	assert.Equal(t, models.StatusContinue, out.Status)
	assert.Equal(t, conversation.ReasonConflict, out.Reason)
	assert.Equal(t, []models.SlotName{models.SlotVehicleID}, out.ClearedSlots)
	assert.Contains(t, out.MissingSlots, models.SlotVehicleID)
	assert.Empty(t, out.Slots.VehicleID)

	// picking another vehicle completes the reservation with the kept window
	out, err = h.chat.ProcessTurn(ctx, provide(second, models.SlotDelta{VehicleID: ptr("Sonata")}))
	require.NoError(t, err)
	assert.Equal(t, models.StatusReservationComplete, out.Status)
	assert.Equal(t, "car_002", out.Slots.VehicleID)
}

func TestScenarioExpiredSession(t *testing.T) {
	h := newHarness(t)
	id := h.newSession(t)
	h.now = h.now.Add(time.Hour + 5*time.Minute)

	_, err := h.chat.ProcessTurn(context.Background(), provide(id, models.SlotDelta{VehicleID: ptr("car_001")}))
	assert.ErrorIs(t, err, models.ErrExpired)
}

func TestScenarioTerminalSessionUnchanged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.newSession(t)
	done, err := h.chat.ProcessTurn(ctx, provide(id, fullDelta("u1", "car_001", 10, 14)))
	require.NoError(t, err)

	_, err = h.chat.ProcessTurn(ctx, provide(id, models.SlotDelta{VehicleID: ptr("car_002")}))
	assert.ErrorIs(t, err, models.ErrTerminal)

	sess, err := h.sessions.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReservationComplete, sess.Status)
	assert.Equal(t, "car_001", sess.Slots.VehicleID)
	assert.Equal(t, done.ReservationID, sess.ReservationID)
}

func TestCancelPreventsCommit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.newSession(t)

	_, err := h.chat.ProcessTurn(ctx, provide(id, models.SlotDelta{VehicleID: ptr("car_001"), StartAt: at(9)}))
	require.NoError(t, err)
	out, err := h.chat.ProcessTurn(ctx, models.ChatIn{SessionID: id, Intent: models.IntentCancel})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUserCancelled, out.Status)

	_, err = h.chat.ProcessTurn(ctx, provide(id, fullDelta("u1", "car_001", 9, 11)))
	assert.ErrorIs(t, err, models.ErrTerminal)

	list, err := h.repo.ListByVehicle(ctx, "car_001")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepeatedDeltaIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.newSession(t)
	in := provide(id, models.SlotDelta{VehicleID: ptr("car_004"), EndAt: at(18)})

	once, err := h.chat.ProcessTurn(ctx, in)
	require.NoError(t, err)
	twice, err := h.chat.ProcessTurn(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, once.Status, twice.Status)
	assert.Equal(t, once.Slots, twice.Slots)
	assert.Equal(t, once.MissingSlots, twice.MissingSlots)
}

// unavailableRepo fails every reservation read with a storage timeout.
type unavailableRepo struct {
	reservationRepo.ReservationRepository
}

func (unavailableRepo) GetBySession(context.Context, string) (*models.Reservation, error) {
	return nil, models.Unavailable("get reservation", errors.New("i/o timeout"))
}

func TestUnavailableKeepsSlots(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.chat.Reservations.(*reservation.DefaultReservationService).Reservations = unavailableRepo{}
	id := h.newSession(t)

	out, err := h.chat.ProcessTurn(ctx, provide(id, fullDelta("u1", "car_001", 10, 14)))
	assert.ErrorIs(t, err, models.ErrUnavailable)
	require.NotNil(t, out)
	assert.Equal(t, models.StatusContinue, out.Status)
	assert.Equal(t, conversation.ReasonStorageUnavailable, out.Reason)

	sess, err := h.sessions.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusContinue, sess.Status)
	assert.Equal(t, "car_001", sess.Slots.VehicleID)
	assert.Equal(t, "u1", sess.UserID)
	require.Len(t, sess.History, 1)
	assert.Equal(t, conversation.ReasonStorageUnavailable, sess.History[0].Reason)
}

func TestTurnHistoryRecordsTextAndReply(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.newSession(t)

	in := provide(id, models.SlotDelta{VehicleID: ptr("car_002")})
	in.Message = "I'd like the Sonata"
	out, err := h.chat.ProcessTurn(ctx, in)
	require.NoError(t, err)

	status, err := h.sessions.Status(ctx, id)
	require.NoError(t, err)
	require.Len(t, status.History, 1)
	turn := status.History[0]
	assert.Equal(t, "I'd like the Sonata", turn.Message)
	assert.Equal(t, out.Response, turn.Response)
	assert.NotEmpty(t, turn.Response)
	assert.Equal(t, models.StatusContinue, turn.Status)
	assert.True(t, turn.At.Equal(h.now))
}

func TestUnknownTurnsEndInError(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.newSession(t)

	var out *models.ChatOut
	var err error
	for i := 0; i < 4; i++ {
		out, err = h.chat.ProcessTurn(ctx, models.ChatIn{SessionID: id, Intent: models.IntentUnknown})
		require.NoError(t, err)
	}
	assert.Equal(t, models.StatusError, out.Status)
	assert.Equal(t, conversation.ReasonTooManyUnknown, out.Reason)
}
