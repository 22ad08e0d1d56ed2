// File: database/repository/vehicle/interface.go
package vehicleRepo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"carbook/models"
)

// VehicleRepository reads the vehicle catalogue.
type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
	// Resolve finds a vehicle by id, exact model name, or model name substring.
	Resolve(ctx context.Context, identifier string) (*models.Vehicle, error)
	UpsertMany(ctx context.Context, vehicles []models.Vehicle) error
	// InsertMissing adds vehicles whose id is not stored yet and leaves existing ones untouched.
	InsertMissing(ctx context.Context, vehicles []models.Vehicle) error
}

//go:embed vehicles.json
var catalogueJSON []byte

// DefaultCatalogue returns the bundled vehicle catalogue.
func DefaultCatalogue() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := json.Unmarshal(catalogueJSON, &vehicles); err != nil {
		return nil, fmt.Errorf("parse vehicle catalogue: %w", err)
	}
	return vehicles, nil
}

// resolveIn applies the identifier matching rules over an already loaded list.
func resolveIn(vehicles []models.Vehicle, identifier string) (*models.Vehicle, error) {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return nil, models.ErrVehicleNotFound
	}
	for i := range vehicles {
		if strings.ToLower(vehicles[i].ID) == needle {
			return &vehicles[i], nil
		}
	}
	for i := range vehicles {
		if strings.ToLower(vehicles[i].ModelName) == needle {
			return &vehicles[i], nil
		}
	}
	for i := range vehicles {
		if strings.Contains(strings.ToLower(vehicles[i].ModelName), needle) {
			return &vehicles[i], nil
		}
	}
	return nil, models.ErrVehicleNotFound
}

func matches(v models.Vehicle, f models.VehicleFilter) bool {
	if f.FuelType != "" && !strings.EqualFold(v.FuelType, f.FuelType) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(v.Type, f.Type) {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	return true
}
