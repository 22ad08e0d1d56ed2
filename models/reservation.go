package models

import "time"

// ReservationStatus is the lifecycle state of a committed reservation.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Reservation represents a committed vehicle reservation record.
type Reservation struct {
	ID        string            `bson:"id" json:"id" gorm:"primaryKey;size:64"`
	UserID    string            `bson:"user_id" json:"user_id" gorm:"size:128;not null"`
	VehicleID string            `bson:"vehicle_id" json:"vehicle_id" gorm:"size:128;not null;index:idx_reservations_vehicle_window,priority:1"`
	StartAt   time.Time         `bson:"start_at" json:"start_at" gorm:"not null;index:idx_reservations_vehicle_window,priority:2"`
	EndAt     time.Time         `bson:"end_at" json:"end_at" gorm:"not null;index:idx_reservations_vehicle_window,priority:3"`
	Status    ReservationStatus `bson:"status" json:"status" gorm:"size:16;not null"`
	SessionID string            `bson:"session_id,omitempty" json:"session_id,omitempty" gorm:"size:64;index"` // idempotency key of the creating session
	CreatedAt time.Time         `bson:"created_at" json:"created_at" gorm:"not null"`
}

// WindowResolution is the precision reservation windows are kept at.
const WindowResolution = time.Second

// NormalizeTime brings t to UTC at WindowResolution. Every backend stores and compares
// window bounds in this form.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(WindowResolution)
}

// Overlaps reports whether r blocks the half-open window [start, end).
// Touching endpoints do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.Status == ReservationConfirmed && r.StartAt.Before(end) && start.Before(r.EndAt)
}

// Candidate is a fully specified reservation request awaiting commit.
type Candidate struct {
	SessionID string
	UserID    string
	VehicleID string
	StartAt   time.Time
	EndAt     time.Time
}
