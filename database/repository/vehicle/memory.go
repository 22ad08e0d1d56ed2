// File: database/repository/vehicle/memory.go
package vehicleRepo

import (
	"context"
	"sort"
	"sync"

	"carbook/models"
)

// MemoryVehicleRepo keeps the catalogue in process memory.
type MemoryVehicleRepo struct {
	mu       sync.RWMutex
	vehicles map[string]models.Vehicle
}

func NewMemoryVehicleRepo(vehicles ...models.Vehicle) *MemoryVehicleRepo {
	r := &MemoryVehicleRepo{vehicles: make(map[string]models.Vehicle)}
	for _, v := range vehicles {
		r.vehicles[v.ID] = v
	}
	return r
}

func (r *MemoryVehicleRepo) snapshot() []models.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryVehicleRepo) GetByID(_ context.Context, id string) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, models.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *MemoryVehicleRepo) List(_ context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range r.snapshot() {
		if matches(v, filter) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *MemoryVehicleRepo) Resolve(_ context.Context, identifier string) (*models.Vehicle, error) {
	return resolveIn(r.snapshot(), identifier)
}

func (r *MemoryVehicleRepo) UpsertMany(_ context.Context, vehicles []models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range vehicles {
		r.vehicles[v.ID] = v
	}
	return nil
}

func (r *MemoryVehicleRepo) InsertMissing(_ context.Context, vehicles []models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range vehicles {
		if _, ok := r.vehicles[v.ID]; !ok {
			r.vehicles[v.ID] = v
		}
	}
	return nil
}
