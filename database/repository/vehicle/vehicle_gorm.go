// File: database/repository/vehicle/vehicle_gorm.go
package vehicleRepo

import (
	"context"
	"errors"
	"fmt"

	"carbook/database"
	"carbook/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVehicleRepo implements VehicleRepository on a relational store.
type GormVehicleRepo struct {
	db *gorm.DB
}

func NewGormVehicleRepo(db *gorm.DB) (*GormVehicleRepo, error) {
	if err := db.AutoMigrate(&models.Vehicle{}); err != nil {
		return nil, fmt.Errorf("migrate vehicles: %w", err)
	}
	return &GormVehicleRepo{db: db}, nil
}

func (r *GormVehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrVehicleNotFound
	}
	if err != nil {
		return nil, database.ClassifyNetError("get vehicle", err)
	}
	return &v, nil
}

func (r *GormVehicleRepo) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FuelType != "" {
		query = query.Where("LOWER(fuel_type) = LOWER(?)", filter.FuelType)
	}
	if filter.Type != "" {
		query = query.Where("LOWER(type) = LOWER(?)", filter.Type)
	}
	var out []models.Vehicle
	if err := query.Find(&out).Error; err != nil {
		return nil, database.ClassifyNetError("list vehicles", err)
	}
	return out, nil
}

func (r *GormVehicleRepo) Resolve(ctx context.Context, identifier string) (*models.Vehicle, error) {
	all, err := r.List(ctx, models.VehicleFilter{})
	if err != nil {
		return nil, err
	}
	return resolveIn(all, identifier)
}

func (r *GormVehicleRepo) UpsertMany(ctx context.Context, vehicles []models.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&vehicles).Error
	if err != nil {
		return database.ClassifyNetError("upsert vehicles", err)
	}
	return nil
}

func (r *GormVehicleRepo) InsertMissing(ctx context.Context, vehicles []models.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&vehicles).Error
	if err != nil {
		return database.ClassifyNetError("insert vehicles", err)
	}
	return nil
}
