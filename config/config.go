package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Reservation and vehicle storage.
	StorageDriver  string        `mapstructure:"STORAGE_DRIVER"` // mongo, postgres, sqlite or memory
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DatabaseName   string        `mapstructure:"DATABASE_NAME"`
	SQLDSN         string        `mapstructure:"SQL_DSN"`
	StorageTimeout time.Duration `mapstructure:"STORAGE_TIMEOUT"`
	SeedVehicles   bool          `mapstructure:"SEED_VEHICLES"`

	// Session storage.
	SessionStore     string        `mapstructure:"SESSION_STORE"` // redis or memory
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB   int           `mapstructure:"REDIS_SESSION_DB"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	SessionSliding   bool          `mapstructure:"SESSION_SLIDING_TTL"`
	SessionRetention time.Duration `mapstructure:"SESSION_RETENTION"`

	// Conversation policy knobs.
	MaxUnknownTurns     int    `mapstructure:"MAX_UNKNOWN_TURNS"`
	ConflictClearPolicy string `mapstructure:"CONFLICT_CLEAR_POLICY"` // vehicle or time
}

// SessionConfig is the subset of Config the session manager needs.
type SessionConfig struct {
	TTL       time.Duration
	Sliding   bool
	Retention time.Duration
	Timeout   time.Duration
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "carbook")
	viper.SetDefault("SQL_DSN", "")
	viper.SetDefault("STORAGE_TIMEOUT", "5s")
	_ = viper.BindEnv("SEED_VEHICLES")
	viper.SetDefault("SESSION_STORE", "redis")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("SESSION_TTL", "1h")
	viper.SetDefault("SESSION_SLIDING_TTL", false)
	viper.SetDefault("SESSION_RETENTION", "10m")
	viper.SetDefault("MAX_UNKNOWN_TURNS", 3)
	viper.SetDefault("CONFLICT_CLEAR_POLICY", "vehicle")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !viper.IsSet("SEED_VEHICLES") {
		AppConfig.SeedVehicles = !IsProduction()
	}
}

// Session returns the session manager settings.
func Session() SessionConfig {
	return SessionConfig{
		TTL:       AppConfig.SessionTTL,
		Sliding:   AppConfig.SessionSliding,
		Retention: AppConfig.SessionRetention,
		Timeout:   AppConfig.StorageTimeout,
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
