// File: services/reservation/commit.go
package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bounded applies the service timeout and turns an elapsed deadline into ErrUnavailable.
func (s *DefaultReservationService) bounded(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && !errors.Is(err, models.ErrUnavailable) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.Unavailable(op, err)
	}
	return err
}

func validWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return models.ErrInvalidWindow
	}
	return nil
}

// HasConflict reports whether a confirmed reservation on vehicleID overlaps [start, end).
func (s *DefaultReservationService) HasConflict(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	start, end = models.NormalizeTime(start), models.NormalizeTime(end)
	if err := validWindow(start, end); err != nil {
		return false, err
	}
	var conflict bool
	err := s.bounded(ctx, "check conflict", func(ctx context.Context) error {
		var err error
		conflict, err = s.Reservations.HasConflict(ctx, vehicleID, start, end)
		return err
	})
	return conflict, err
}

// resolveVehicle maps the slot value onto a catalogue vehicle and applies the status gate.
func (s *DefaultReservationService) resolveVehicle(ctx context.Context, identifier string) (*models.Vehicle, error) {
	v, err := s.Vehicles.Resolve(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", identifier, err)
	}
	if v.Status != models.VehicleAvailable {
		return nil, fmt.Errorf("vehicle %s is %s: %w", v.ID, v.Status, models.ErrVehicleUnavailable)
	}
	return v, nil
}

// Commit validates c, resolves its vehicle and inserts a confirmed reservation. A second
// commit from the same session returns the reservation created by the first.
func (s *DefaultReservationService) Commit(ctx context.Context, c models.Candidate) (*models.Reservation, error) {
	if strings.TrimSpace(c.UserID) == "" || strings.TrimSpace(c.VehicleID) == "" {
		return nil, fmt.Errorf("candidate is missing user or vehicle")
	}
	start, end := models.NormalizeTime(c.StartAt), models.NormalizeTime(c.EndAt)
	if err := validWindow(start, end); err != nil {
		return nil, err
	}

	var out *models.Reservation
	err := s.bounded(ctx, "commit reservation", func(ctx context.Context) error {
		if c.SessionID != "" {
			existing, err := s.Reservations.GetBySession(ctx, c.SessionID)
			switch {
			case err == nil:
				out = existing
				return nil
			case !errors.Is(err, models.ErrNotFound):
				return err
			}
		}

		vehicle, err := s.resolveVehicle(ctx, c.VehicleID)
		if err != nil {
			return err
		}

		// cheap pre-check; Insert repeats it under the vehicle's lock
		conflict, err := s.Reservations.HasConflict(ctx, vehicle.ID, start, end)
		if err != nil {
			return err
		}
		if conflict {
			return &models.ConflictError{VehicleID: vehicle.ID, StartAt: start, EndAt: end}
		}

		res := &models.Reservation{
			ID:        uuid.New().String(),
			UserID:    c.UserID,
			VehicleID: vehicle.ID,
			StartAt:   start,
			EndAt:     end,
			Status:    models.ReservationConfirmed,
			SessionID: c.SessionID,
			CreatedAt: s.Now().UTC(),
		}
		if err := s.Reservations.Insert(ctx, res); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			s.Logger.Info("Reservation conflict",
				zap.String("sessionID", c.SessionID),
				zap.String("vehicleID", conflict.VehicleID),
				zap.Time("startAt", conflict.StartAt),
				zap.Time("endAt", conflict.EndAt))
		}
		return nil, err
	}

	s.Logger.Info("Reservation confirmed",
		zap.String("reservationID", out.ID),
		zap.String("sessionID", c.SessionID),
		zap.String("vehicleID", out.VehicleID))
	return out, nil
}
