// File: services/conversation/machine.go
package conversation

import (
	"errors"
	"fmt"

	"carbook/models"
)

// Reasons attached to a step. They are stable and used by responders.
const (
	ReasonMissingInfo        = "missing_info"
	ReasonReadyToCommit      = "ready_to_commit"
	ReasonReservationCreated = "reservation_complete"
	ReasonUserCancelled      = "user_cancelled"
	ReasonConflict           = "conflict"
	ReasonInvalidWindow      = "invalid_window"
	ReasonVehicleNotFound    = "vehicle_not_found"
	ReasonVehicleUnavailable = "vehicle_unavailable"
	ReasonStorageUnavailable = "storage_unavailable"
	ReasonUnrecognized       = "unrecognized_input"
	ReasonTooManyUnknown     = "too_many_unknown_turns"
	ReasonCommitFailed       = "commit_failed"
)

// State is the part of a session the machine reads and writes.
type State struct {
	SessionID     string
	Draft         models.Draft
	Status        models.Status
	UnknownStreak int
	ReservationID string
	ErrorDetail   string
}

// Input is one already-classified turn.
type Input struct {
	Intent models.Intent
	Delta  models.SlotDelta
}

// Effect describes what the caller must do after a step. The machine performs no I/O.
type Effect struct {
	// Commit is set when every required slot is filled and the window is valid.
	Commit  *models.Candidate
	Cleared []models.SlotName
	Reason  string
}

// Step is the result of one transition.
type Step struct {
	State   State
	Missing []models.SlotName
	Effect  Effect
}

// Machine is the slot-filling state machine. The zero value uses a zero unknown-turn
// budget; use New for the defaults.
type Machine struct {
	Policy Policy
}

func New(p Policy) Machine {
	return Machine{Policy: p}
}

func (m Machine) step(s State, reason string, cleared ...models.SlotName) Step {
	return Step{
		State:   s,
		Missing: s.Draft.Missing(),
		Effect:  Effect{Reason: reason, Cleared: cleared},
	}
}

// Apply runs one turn. Terminal states are rejected with models.ErrTerminal.
func (m Machine) Apply(s State, in Input) (Step, error) {
	if s.Status.IsTerminal() {
		return Step{}, fmt.Errorf("status %s: %w", s.Status, models.ErrTerminal)
	}

	switch {
	case in.Intent == models.IntentCancel:
		s.Status = models.StatusUserCancelled
		s.UnknownStreak = 0
		return m.step(s, ReasonUserCancelled), nil

	case in.Delta.IsEmpty():
		if in.Intent == models.IntentUnknown {
			s.UnknownStreak++
			if s.UnknownStreak > m.Policy.MaxUnknownTurns {
				s.Status = models.StatusError
				s.ErrorDetail = fmt.Sprintf("%d consecutive turns without usable input", s.UnknownStreak)
				return m.step(s, ReasonTooManyUnknown), nil
			}
			return m.step(s, ReasonUnrecognized), nil
		}
		s.UnknownStreak = 0

	default:
		// a usable delta counts as information even when the intent was not classified
		s.UnknownStreak = 0
		s.Draft = s.Draft.Merge(in.Delta)
	}

	slots := s.Draft.Slots
	if slots.StartAt != nil && slots.EndAt != nil && !slots.StartAt.Before(*slots.EndAt) {
		s.Draft = s.Draft.Clear(models.SlotEndAt)
		return m.step(s, ReasonInvalidWindow, models.SlotEndAt), nil
	}

	out := m.step(s, ReasonMissingInfo)
	if len(out.Missing) == 0 {
		out.Effect.Reason = ReasonReadyToCommit
		out.Effect.Commit = &models.Candidate{
			SessionID: s.SessionID,
			UserID:    s.Draft.UserID,
			VehicleID: slots.VehicleID,
			StartAt:   *slots.StartAt,
			EndAt:     *slots.EndAt,
		}
	}
	return out, nil
}

// OutcomeKind classifies the result of a commit attempt.
type OutcomeKind int

const (
	Committed OutcomeKind = iota
	Conflict
	VehicleNotFound
	VehicleUnavailable
	InvalidWindow
	Unavailable
	Failed
)

// Outcome is what happened when the caller executed Effect.Commit.
type Outcome struct {
	Kind          OutcomeKind
	ReservationID string
	Err           error
}

// OutcomeOf maps the committer's result onto an Outcome.
func OutcomeOf(reservationID string, err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Kind: Committed, ReservationID: reservationID}
	case errors.Is(err, models.ErrConflict):
		return Outcome{Kind: Conflict, Err: err}
	case errors.Is(err, models.ErrVehicleNotFound):
		return Outcome{Kind: VehicleNotFound, Err: err}
	case errors.Is(err, models.ErrVehicleUnavailable):
		return Outcome{Kind: VehicleUnavailable, Err: err}
	case errors.Is(err, models.ErrInvalidWindow):
		return Outcome{Kind: InvalidWindow, Err: err}
	case errors.Is(err, models.ErrUnavailable):
		return Outcome{Kind: Unavailable, Err: err}
	}
	return Outcome{Kind: Failed, Err: err}
}

// Resolve folds a commit outcome back into the state produced by Apply.
func (m Machine) Resolve(s State, o Outcome) Step {
	switch o.Kind {
	case Committed:
		s.Status = models.StatusReservationComplete
		s.ReservationID = o.ReservationID
		return m.step(s, ReasonReservationCreated)

	case Conflict:
		cleared := []models.SlotName{models.SlotVehicleID}
		if m.Policy.OnConflict == ClearWindow {
			cleared = []models.SlotName{models.SlotStartAt, models.SlotEndAt}
		}
		for _, name := range cleared {
			s.Draft = s.Draft.Clear(name)
		}
		return m.step(s, ReasonConflict, cleared...)

	case VehicleNotFound:
		s.Draft = s.Draft.Clear(models.SlotVehicleID)
		return m.step(s, ReasonVehicleNotFound, models.SlotVehicleID)

	case VehicleUnavailable:
		s.Draft = s.Draft.Clear(models.SlotVehicleID)
		return m.step(s, ReasonVehicleUnavailable, models.SlotVehicleID)

	case InvalidWindow:
		s.Draft = s.Draft.Clear(models.SlotEndAt)
		return m.step(s, ReasonInvalidWindow, models.SlotEndAt)

	case Unavailable:
		// slots stay filled so the same turn can be retried
		return m.step(s, ReasonStorageUnavailable)

	case Failed:
		s.Status = models.StatusError
		if o.Err != nil {
			s.ErrorDetail = o.Err.Error()
		}
		return m.step(s, ReasonCommitFailed)
	}
	s.Status = models.StatusError
	s.ErrorDetail = fmt.Sprintf("unhandled commit outcome %d", int(o.Kind))
	return m.step(s, ReasonCommitFailed)
}

// FromSession extracts the machine state from a stored session.
func FromSession(sess *models.Session) State {
	return State{
		SessionID:     sess.SessionID,
		Draft:         sess.Draft(),
		Status:        sess.Status,
		UnknownStreak: sess.UnknownStreak,
		ReservationID: sess.ReservationID,
		ErrorDetail:   sess.ErrorDetail,
	}
}

// ApplyTo writes s back into sess.
func (s State) ApplyTo(sess *models.Session) {
	sess.SetDraft(s.Draft)
	sess.Status = s.Status
	sess.UnknownStreak = s.UnknownStreak
	sess.ReservationID = s.ReservationID
	sess.ErrorDetail = s.ErrorDetail
}
