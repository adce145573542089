// Package config loads application configuration from the environment.
package config

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"katalog/internal/database"
	"katalog/internal/storage"
	"katalog/pkg/rabbitmq"
)

// EnvProduction is the APP_ENV value that hides internal error details
// from API responses.
const EnvProduction = "production"

// DriverMemory keeps products in process memory instead of a database.
const DriverMemory = "memory"

// Config holds all runtime configuration for the service.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	Database database.Config
	Storage  storage.Config
	RabbitMQ rabbitmq.Config
}

// LoadDotEnv reads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", EnvProduction)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", database.DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:katalog.db?cache=shared")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("RABBITMQ_QUEUE", rabbitmq.DefaultQueue)
}

// Load reads configuration from v, which should have AutomaticEnv enabled.
// It fails if any required object storage setting is missing.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		AppPort:  v.GetString("APP_PORT"),
		AppEnv:   strings.ToLower(v.GetString("APP_ENV")),
		LogLevel: v.GetString("LOG_LEVEL"),
		Database: database.Config{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Storage: storage.Config{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("S3_BUCKET_NAME"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
			UseSSL:          v.GetBool("S3_USE_SSL"),
		},
		RabbitMQ: rabbitmq.Config{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if missing := c.Storage.Missing(); len(missing) > 0 {
		return errors.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	switch c.Database.Driver {
	case database.DriverPostgres, database.DriverSQLite, DriverMemory:
	default:
		return errors.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	return nil
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// EventsEnabled reports whether product events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.URL != ""
}
