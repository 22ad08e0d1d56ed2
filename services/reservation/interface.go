package reservation

import (
	"context"
	"time"

	reservationRepo "carbook/database/repository/reservation"
	vehicleRepo "carbook/database/repository/vehicle"
	"carbook/models"
	"carbook/utils"

	"go.uber.org/zap"
)

// ReservationService checks and commits reservations and answers catalogue queries.
type ReservationService interface {
	HasConflict(ctx context.Context, vehicleID string, start, end time.Time) (bool, error)
	// Commit creates a confirmed reservation for c. It is idempotent per session.
	Commit(ctx context.Context, c models.Candidate) (*models.Reservation, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	CancelReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListVehicles(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
	AvailableVehicles(ctx context.Context, filter models.VehicleFilter, start, end time.Time) ([]models.Vehicle, error)
	Ping(ctx context.Context) error
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Reservations reservationRepo.ReservationRepository
	Vehicles     vehicleRepo.VehicleRepository
	Timeout      time.Duration
	Now          func() time.Time
	Logger       *zap.Logger
}

func NewReservationService(reservations reservationRepo.ReservationRepository, vehicles vehicleRepo.VehicleRepository, timeout time.Duration) *DefaultReservationService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DefaultReservationService{
		Reservations: reservations,
		Vehicles:     vehicles,
		Timeout:      timeout,
		Now:          time.Now,
		Logger:       utils.GetLogger(),
	}
}
