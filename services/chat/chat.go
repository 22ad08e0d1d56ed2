// File: services/chat/chat.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbook/models"
	"carbook/services/conversation"
	"carbook/services/reservation"
	"carbook/services/responder"
	"carbook/services/session"
	"carbook/utils"

	"go.uber.org/zap"
)

// ChatService runs one conversational turn against a session.
type ChatService interface {
	ProcessTurn(ctx context.Context, in models.ChatIn) (*models.ChatOut, error)
}

// DefaultChatService wires the state machine to sessions, the committer and a responder.
type DefaultChatService struct {
	Sessions     session.SessionManager
	Reservations reservation.ReservationService
	Machine      conversation.Machine
	Responder    responder.Responder
	Now          func() time.Time
	Logger       *zap.Logger
}

func NewChatService(sessions session.SessionManager, reservations reservation.ReservationService, machine conversation.Machine) *DefaultChatService {
	return &DefaultChatService{
		Sessions:     sessions,
		Reservations: reservations,
		Machine:      machine,
		Responder:    responder.TemplateResponder{},
		Now:          time.Now,
		Logger:       utils.GetLogger(),
	}
}

// ProcessTurn applies the turn under the session lock. When the commit step hits
// unavailable storage the merged slots are still saved, the session stays in CONTINUE,
// and an error wrapping models.ErrUnavailable is returned alongside the output.
func (s *DefaultChatService) ProcessTurn(ctx context.Context, in models.ChatIn) (*models.ChatOut, error) {
	var (
		step      conversation.Step
		response  string
		commitErr error
	)

	updated, err := s.Sessions.UpdateSession(ctx, in.SessionID, func(sess *models.Session) error {
		var err error
		step, err = s.Machine.Apply(conversation.FromSession(sess), conversation.Input{Intent: in.Intent, Delta: in.Slots})
		if err != nil {
			return err
		}

		if step.Effect.Commit != nil {
			res, err := s.Reservations.Commit(ctx, *step.Effect.Commit)
			outcome := conversation.OutcomeOf(reservationID(res), err)
			step = s.Machine.Resolve(step.State, outcome)
			switch outcome.Kind {
			case conversation.Committed:
				step.State.Draft.Slots.VehicleID = res.VehicleID
			case conversation.Unavailable:
				commitErr = err
			case conversation.Failed:
				s.Logger.Error("Reservation commit failed",
					zap.String("sessionID", sess.SessionID),
					zap.Error(err))
			}
		}

		step.State.ApplyTo(sess)
		response = s.Responder.Respond(responder.Prompt{
			Status:        sess.Status,
			Missing:       sess.Draft().Missing(),
			Slots:         sess.Slots,
			Reason:        step.Effect.Reason,
			ReservationID: sess.ReservationID,
		})
		sess.RecordTurn(models.TurnRecord{
			Intent:   in.Intent,
			Message:  in.Message,
			Response: response,
			Status:   step.State.Status,
			Reason:   step.Effect.Reason,
			At:       s.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrTerminal) {
			s.Logger.Info("Turn rejected on finished session", zap.String("sessionID", in.SessionID))
		}
		return nil, err
	}

	out := &models.ChatOut{
		SessionID:     updated.SessionID,
		Status:        updated.Status,
		MissingSlots:  updated.Draft().Missing(),
		Reason:        step.Effect.Reason,
		ClearedSlots:  step.Effect.Cleared,
		Slots:         updated.Slots,
		UserID:        updated.UserID,
		ReservationID: updated.ReservationID,
		Response:      response,
	}

	s.Logger.Debug("Turn processed",
		zap.String("sessionID", out.SessionID),
		zap.String("intent", in.Intent.String()),
		zap.String("status", out.Status.String()),
		zap.String("reason", out.Reason))

	if commitErr != nil {
		return out, fmt.Errorf("commit reservation: %w", commitErr)
	}
	return out, nil
}

func reservationID(res *models.Reservation) string {
	if res == nil {
		return ""
	}
	return res.ID
}
