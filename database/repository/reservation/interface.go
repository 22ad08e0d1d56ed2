// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"
	"time"

	"carbook/models"
)

// ReservationRepository stores reservations. Insert performs the overlap check and
// the write as one serialized step per vehicle and fails with *models.ConflictError
// when a confirmed reservation already blocks the window.
type ReservationRepository interface {
	HasConflict(ctx context.Context, vehicleID string, start, end time.Time) (bool, error)
	Insert(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetBySession(ctx context.Context, sessionID string) (*models.Reservation, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]models.Reservation, error)
	// UpdateStatus moves a reservation from one status to another; models.ErrNotFound
	// is returned when no reservation with id is in status from.
	UpdateStatus(ctx context.Context, id string, from, to models.ReservationStatus) error
	Ping(ctx context.Context) error
}

// normalized returns a copy of res with its window at storage precision.
func normalized(res *models.Reservation) models.Reservation {
	row := *res
	row.StartAt = models.NormalizeTime(res.StartAt)
	row.EndAt = models.NormalizeTime(res.EndAt)
	return row
}

func conflictFor(r *models.Reservation) error {
	return &models.ConflictError{VehicleID: r.VehicleID, StartAt: r.StartAt, EndAt: r.EndAt}
}
