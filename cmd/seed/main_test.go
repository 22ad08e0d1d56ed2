package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"carbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRepoRejectsMemoryAndUnknownDrivers(t *testing.T) {
	for _, driver := range []string{"memory", "oracle"} {
		t.Run(driver, func(t *testing.T) {
			repo, closer, err := openRepo(context.Background(), driver, "", false)
			assert.Error(t, err)
			assert.Nil(t, repo)
			assert.Nil(t, closer)
		})
	}
}

func TestSeedSQLite(t *testing.T) {
	ctx := context.Background()
	repo, closer, err := openRepo(ctx, "sqlite", filepath.Join(t.TempDir(), "seed.db"), false)
	require.NoError(t, err)
	defer closer()

	vehicles, err := loadCatalogue("")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertMany(ctx, vehicles))

	all, err := repo.List(ctx, models.VehicleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, len(vehicles))
}

func TestLoadCatalogueFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"car_100","model_name":"Ioniq 5","status":"available"}]`), 0o600))

	vehicles, err := loadCatalogue(path)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "car_100", vehicles[0].ID)
	assert.Equal(t, models.VehicleAvailable, vehicles[0].Status)

	_, err = loadCatalogue(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
