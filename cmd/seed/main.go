// Command seed loads the vehicle catalogue into the configured store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"carbook/config"
	"carbook/database"
	vehicleRepo "carbook/database/repository/vehicle"
	"carbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

func loadCatalogue(path string) ([]models.Vehicle, error) {
	if path == "" {
		return vehicleRepo.DefaultCatalogue()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vehicles []models.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// openRepo returns the vehicle repository for driver and a func that releases it.
func openRepo(ctx context.Context, driver, dsn string, reset bool) (vehicleRepo.VehicleRepository, func(), error) {
	switch driver {
	case "postgres", "sqlite":
		db, err := database.OpenGorm(driver, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", driver, err)
		}
		repo, err := vehicleRepo.NewGormVehicleRepo(db)
		if err != nil {
			return nil, nil, fmt.Errorf("migrate vehicles: %w", err)
		}
		closer := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closer, nil
	case "memory":
		return nil, nil, errors.New("STORAGE_DRIVER=memory has nothing to seed; the server loads the catalogue itself")
	case "mongo", "":
		database.InitDB()
		db := database.MongoDatabase()
		closer := func() { _ = database.MongoClient.Disconnect(context.Background()) }

		if reset {
			if _, err := db.Collection("vehicles").DeleteMany(ctx, bson.M{}); err != nil {
				closer()
				return nil, nil, fmt.Errorf("clear vehicles collection: %w", err)
			}
		}
		repo := vehicleRepo.NewMongoVehicleRepo(db)
		if err := repo.EnsureIndexes(); err != nil {
			closer()
			return nil, nil, fmt.Errorf("create vehicle indexes: %w", err)
		}
		return repo, closer, nil
	}
	return nil, nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", driver)
}

func main() {
	file := flag.String("file", "", "JSON vehicle catalogue (defaults to the bundled one)")
	reset := flag.Bool("reset", false, "remove existing vehicles first (mongo only)")
	flag.Parse()

	config.LoadConfig()

	vehicles, err := loadCatalogue(*file)
	if err != nil {
		log.Fatalf("Failed to load catalogue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, closeRepo, err := openRepo(ctx, config.AppConfig.StorageDriver, config.AppConfig.SQLDSN, *reset)
	if err != nil {
		log.Fatalf("Failed to open vehicle store: %v", err)
	}
	defer closeRepo()

	if err := repo.UpsertMany(ctx, vehicles); err != nil {
		log.Fatalf("Failed to seed vehicles: %v", err)
	}
	log.Printf("Seeded %d vehicles", len(vehicles))
}
