package models

import (
	"strings"
	"time"
)

// SlotName identifies one piece of reservation information.
type SlotName string

const (
	SlotVehicleID SlotName = "vehicle_id"
	SlotStartAt   SlotName = "start_at"
	SlotEndAt     SlotName = "end_at"
	SlotUserID    SlotName = "user_id"
)

// RequiredSlots is the ordered set of slots a reservation needs.
var RequiredSlots = []SlotName{SlotVehicleID, SlotStartAt, SlotEndAt, SlotUserID}

// Slots holds the reservation draft fields persisted under "slots".
type Slots struct {
	VehicleID string     `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty"`
	StartAt   *time.Time `json:"start_at,omitempty" bson:"start_at,omitempty"`
	EndAt     *time.Time `json:"end_at,omitempty" bson:"end_at,omitempty"`
}

// Clone returns a copy that shares no pointers with s.
func (s Slots) Clone() Slots {
	out := Slots{VehicleID: s.VehicleID}
	if s.StartAt != nil {
		t := *s.StartAt
		out.StartAt = &t
	}
	if s.EndAt != nil {
		t := *s.EndAt
		out.EndAt = &t
	}
	return out
}

// SlotDelta is a partial update extracted from one message. Nil fields are ignored.
type SlotDelta struct {
	UserID    *string    `json:"user_id,omitempty"`
	VehicleID *string    `json:"vehicle_id,omitempty"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	EndAt     *time.Time `json:"end_at,omitempty"`
}

// IsEmpty reports whether the delta carries no usable value.
func (d SlotDelta) IsEmpty() bool {
	return blank(d.UserID) && blank(d.VehicleID) && d.StartAt == nil && d.EndAt == nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// Draft is the full set of slot values for a session, including the user.
type Draft struct {
	UserID string
	Slots  Slots
}

// Merge applies a delta with last-write-wins semantics per field.
func (d Draft) Merge(delta SlotDelta) Draft {
	out := Draft{UserID: d.UserID, Slots: d.Slots.Clone()}
	if !blank(delta.UserID) {
		out.UserID = strings.TrimSpace(*delta.UserID)
	}
	if !blank(delta.VehicleID) {
		out.Slots.VehicleID = strings.TrimSpace(*delta.VehicleID)
	}
	if delta.StartAt != nil {
		t := NormalizeTime(*delta.StartAt)
		out.Slots.StartAt = &t
	}
	if delta.EndAt != nil {
		t := NormalizeTime(*delta.EndAt)
		out.Slots.EndAt = &t
	}
	return out
}

// Clear empties the named slot.
func (d Draft) Clear(name SlotName) Draft {
	out := Draft{UserID: d.UserID, Slots: d.Slots.Clone()}
	switch name {
	case SlotVehicleID:
		out.Slots.VehicleID = ""
	case SlotStartAt:
		out.Slots.StartAt = nil
	case SlotEndAt:
		out.Slots.EndAt = nil
	case SlotUserID:
		out.UserID = ""
	}
	return out
}

// Filled reports whether the named slot has a value.
func (d Draft) Filled(name SlotName) bool {
	switch name {
	case SlotVehicleID:
		return d.Slots.VehicleID != ""
	case SlotStartAt:
		return d.Slots.StartAt != nil
	case SlotEndAt:
		return d.Slots.EndAt != nil
	case SlotUserID:
		return d.UserID != ""
	}
	return false
}

// Missing returns the required slots that are still empty, in RequiredSlots order.
func (d Draft) Missing() []SlotName {
	missing := make([]SlotName, 0, len(RequiredSlots))
	for _, name := range RequiredSlots {
		if !d.Filled(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
