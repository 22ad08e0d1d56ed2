package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSeedVehiclesDefault(t *testing.T) {
	tests := []struct {
		name string
		env  string
		seed string
		want bool
	}{
		{"development seeds", "development", "", true},
		{"production does not seed", "production", "", false},
		{"explicit override", "production", "true", true},
		{"explicit opt out", "development", "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("ENV", tt.env)
			if tt.seed != "" {
				t.Setenv("SEED_VEHICLES", tt.seed)
			}
			LoadConfig()
			assert.Equal(t, tt.want, AppConfig.SeedVehicles)
		})
	}
}
