// File: database/repository/reservation/memory.go
package reservationRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"carbook/models"
)

// MemoryReservationRepo is a process-local repository; one mutex covers check and insert.
type MemoryReservationRepo struct {
	mu   sync.Mutex
	rows []models.Reservation
}

func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{}
}

func (r *MemoryReservationRepo) conflictLocked(vehicleID string, start, end time.Time) bool {
	for _, row := range r.rows {
		if row.VehicleID == vehicleID && row.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *MemoryReservationRepo) HasConflict(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, models.Unavailable("check conflict", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conflictLocked(vehicleID, models.NormalizeTime(start), models.NormalizeTime(end)), nil
}

func (r *MemoryReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	if err := ctx.Err(); err != nil {
		return models.Unavailable("insert reservation", err)
	}
	row := normalized(res)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictLocked(row.VehicleID, row.StartAt, row.EndAt) {
		return conflictFor(&row)
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *MemoryReservationRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryReservationRepo) GetBySession(_ context.Context, sessionID string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if sessionID != "" && row.SessionID == sessionID {
			out := row
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryReservationRepo) ListByVehicle(_ context.Context, vehicleID string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reservation
	for _, row := range r.rows {
		if row.VehicleID == vehicleID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *MemoryReservationRepo) UpdateStatus(_ context.Context, id string, from, to models.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].Status == from {
			r.rows[i].Status = to
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *MemoryReservationRepo) Ping(context.Context) error {
	return nil
}
