package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbook/models"

	"go.uber.org/zap"
)

func (s *DefaultReservationService) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	var out *models.Reservation
	err := s.bounded(ctx, "get reservation", func(ctx context.Context) error {
		var err error
		out, err = s.Reservations.GetByID(ctx, id)
		return err
	})
	return out, err
}

// CancelReservation moves a confirmed reservation to cancelled, freeing its window.
func (s *DefaultReservationService) CancelReservation(ctx context.Context, id string) (*models.Reservation, error) {
	var out *models.Reservation
	err := s.bounded(ctx, "cancel reservation", func(ctx context.Context) error {
		res, err := s.Reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if res.Status != models.ReservationConfirmed {
			return fmt.Errorf("reservation %s is %s: %w", id, res.Status, models.ErrNotCancellable)
		}
		err = s.Reservations.UpdateStatus(ctx, id, models.ReservationConfirmed, models.ReservationCancelled)
		if errors.Is(err, models.ErrNotFound) {
			// lost a race with another cancel
			return fmt.Errorf("reservation %s: %w", id, models.ErrNotCancellable)
		}
		if err != nil {
			return err
		}
		res.Status = models.ReservationCancelled
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Reservation cancelled", zap.String("reservationID", id))
	return out, nil
}

func (s *DefaultReservationService) ListVehicles(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	var out []models.Vehicle
	err := s.bounded(ctx, "list vehicles", func(ctx context.Context) error {
		var err error
		out, err = s.Vehicles.List(ctx, filter)
		return err
	})
	return out, err
}

// AvailableVehicles lists vehicles in available status with no confirmed reservation
// overlapping [start, end).
func (s *DefaultReservationService) AvailableVehicles(ctx context.Context, filter models.VehicleFilter, start, end time.Time) ([]models.Vehicle, error) {
	start, end = models.NormalizeTime(start), models.NormalizeTime(end)
	if err := validWindow(start, end); err != nil {
		return nil, err
	}
	filter.Status = models.VehicleAvailable

	var out []models.Vehicle
	err := s.bounded(ctx, "available vehicles", func(ctx context.Context) error {
		vehicles, err := s.Vehicles.List(ctx, filter)
		if err != nil {
			return err
		}
		out = make([]models.Vehicle, 0, len(vehicles))
		for _, v := range vehicles {
			conflict, err := s.Reservations.HasConflict(ctx, v.ID, start, end)
			if err != nil {
				return err
			}
			if !conflict {
				out = append(out, v)
			}
		}
		return nil
	})
	return out, err
}

func (s *DefaultReservationService) Ping(ctx context.Context) error {
	return s.Reservations.Ping(ctx)
}
