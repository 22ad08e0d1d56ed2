package vehicleRepo

import (
	"context"
	"path/filepath"
	"testing"

	"carbook/database"
	"carbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	vehicles, err := DefaultCatalogue()
	require.NoError(t, err)
	require.NotEmpty(t, vehicles)
	for _, v := range vehicles {
		assert.NotEmpty(t, v.ID)
		assert.NotEmpty(t, v.Status)
	}
}

func TestResolveRules(t *testing.T) {
	vehicles, err := DefaultCatalogue()
	require.NoError(t, err)
	repo := NewMemoryVehicleRepo(vehicles...)
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		wantID     string
		wantErr    error
	}{
		{"by id", "car_003", "car_003", nil},
		{"id is case insensitive", "CAR_001", "car_001", nil},
		{"exact model name", "kia sorento", "car_004", nil},
		{"model name substring", "avante", "car_001", nil},
		{"unknown", "tesla", "", models.ErrVehicleNotFound},
		{"blank", "  ", "", models.ErrVehicleNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := repo.Resolve(ctx, tt.identifier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, v.ID)
		})
	}
}

func TestMemoryListFilters(t *testing.T) {
	vehicles, err := DefaultCatalogue()
	require.NoError(t, err)
	repo := NewMemoryVehicleRepo(vehicles...)

	electric, err := repo.List(context.Background(), models.VehicleFilter{FuelType: "Electric", Status: models.VehicleAvailable})
	require.NoError(t, err)
	require.Len(t, electric, 1)
	assert.Equal(t, "car_003", electric[0].ID)
}

func TestGormVehicleRepoSQLite(t *testing.T) {
	db, err := database.OpenGorm("sqlite", filepath.Join(t.TempDir(), "vehicles.db"))
	require.NoError(t, err)
	repo, err := NewGormVehicleRepo(db)
	require.NoError(t, err)
	ctx := context.Background()

	vehicles, err := DefaultCatalogue()
	require.NoError(t, err)
	require.NoError(t, repo.UpsertMany(ctx, vehicles))
	require.NoError(t, repo.UpsertMany(ctx, vehicles))

	all, err := repo.List(ctx, models.VehicleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, len(vehicles))

	suvs, err := repo.List(ctx, models.VehicleFilter{Type: "SUV", Status: models.VehicleAvailable})
	require.NoError(t, err)
	assert.Len(t, suvs, 2)

	v, err := repo.Resolve(ctx, "staria")
	require.NoError(t, err)
	assert.Equal(t, "car_006", v.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrVehicleNotFound)
}

func TestInsertMissingKeepsOperatorChanges(t *testing.T) {
	catalogue, err := DefaultCatalogue()
	require.NoError(t, err)

	sqlDB, err := database.OpenGorm("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	gormRepo, err := NewGormVehicleRepo(sqlDB)
	require.NoError(t, err)

	repos := map[string]VehicleRepository{
		"memory": NewMemoryVehicleRepo(),
		"sqlite": gormRepo,
	}
	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.InsertMissing(ctx, catalogue))

			changed := catalogue[0]
			changed.Status = models.VehicleMaintenance
			require.NoError(t, repo.UpsertMany(ctx, []models.Vehicle{changed}))

			// a restart seeds the same catalogue again
			require.NoError(t, repo.InsertMissing(ctx, catalogue))

			v, err := repo.GetByID(ctx, changed.ID)
			require.NoError(t, err)
			assert.Equal(t, models.VehicleMaintenance, v.Status)

			all, err := repo.List(ctx, models.VehicleFilter{})
			require.NoError(t, err)
			assert.Len(t, all, len(catalogue))
		})
	}
}
