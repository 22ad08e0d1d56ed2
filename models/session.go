package models

import "time"

// MaxHistory bounds the per-session turn log.
const MaxHistory = 50

// Session holds the reservation draft and lifecycle metadata for one conversation.
type Session struct {
	SessionID      string       `json:"session_id" bson:"session_id"`
	UserID         string       `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Slots          Slots        `json:"slots" bson:"slots"`
	Status         Status       `json:"status" bson:"status"`
	ReservationID  string       `json:"reservation_id,omitempty" bson:"reservation_id,omitempty"` // set once committed
	ErrorDetail    string       `json:"error_detail,omitempty" bson:"error_detail,omitempty"`     // why the session reached ERROR
	UnknownStreak  int          `json:"unknown_streak" bson:"unknown_streak"`                     // consecutive turns with no usable input
	TurnCount      int          `json:"turn_count" bson:"turn_count"`
	History        []TurnRecord `json:"history,omitempty" bson:"history,omitempty"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
	ExpiresAt      time.Time    `json:"expires_at" bson:"expires_at"`
	LastActivityAt time.Time    `json:"last_activity_at" bson:"last_activity_at"`
}

// TurnRecord is one processed turn kept for observability.
type TurnRecord struct {
	Intent   Intent    `json:"intent" bson:"intent"`
	Message  string    `json:"message,omitempty" bson:"message,omitempty"`   // user text as received
	Response string    `json:"response,omitempty" bson:"response,omitempty"` // reply rendered for the turn
	Status   Status    `json:"status" bson:"status"`
	Reason   string    `json:"reason,omitempty" bson:"reason,omitempty"`
	At       time.Time `json:"at" bson:"at"`
}

// Draft returns the slot values of the session including the user.
func (s *Session) Draft() Draft {
	return Draft{UserID: s.UserID, Slots: s.Slots.Clone()}
}

// SetDraft stores d back into the session.
func (s *Session) SetDraft(d Draft) {
	s.UserID = d.UserID
	s.Slots = d.Slots.Clone()
}

// Expired reports whether the session is past its deadline at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RecordTurn appends to the turn history, dropping the oldest entries past the cap.
func (s *Session) RecordTurn(rec TurnRecord) {
	s.TurnCount++
	s.History = append(s.History, rec)
	if len(s.History) > MaxHistory {
		s.History = append([]TurnRecord(nil), s.History[len(s.History)-MaxHistory:]...)
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	out.Slots = s.Slots.Clone()
	if s.History != nil {
		out.History = append([]TurnRecord(nil), s.History...)
	}
	return &out
}

// SessionStatus is the public view of a session returned by status lookups.
type SessionStatus struct {
	SessionID     string       `json:"session_id"`
	IsValid       bool         `json:"is_valid"`
	Status        string       `json:"status,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	Slots         *Slots       `json:"slots,omitempty"`
	UserID        string       `json:"user_id,omitempty"`
	MissingSlots  []SlotName   `json:"missing_slots,omitempty"`
	ReservationID string       `json:"reservation_id,omitempty"`
	TurnCount     int          `json:"turn_count"`
	History       []TurnRecord `json:"history,omitempty"` // oldest first, only on single-session lookups
}

// NewSessionOut is returned when a session is created.
type NewSessionOut struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
