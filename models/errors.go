package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrExpired            = errors.New("session expired")
	ErrTerminal           = errors.New("session is terminal")
	ErrConflict           = errors.New("reservation window conflicts with an existing reservation")
	ErrUnavailable        = errors.New("storage unavailable")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrInvalidWindow      = errors.New("start_at must be before end_at")
	ErrNotCancellable     = errors.New("only confirmed reservations can be cancelled")
)

// ConflictError describes the window that lost against an existing reservation.
type ConflictError struct {
	VehicleID string
	StartAt   time.Time
	EndAt     time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vehicle %s already reserved within [%s, %s)",
		e.VehicleID, e.StartAt.Format(time.RFC3339), e.EndAt.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
