package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/session-limit-service/internal/logger"
)

// Storage drivers understood by the app wiring.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	SQLite   SQLiteConfig        `mapstructure:"sqlite"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	// OpTimeout bounds every repository call, in seconds.
	OpTimeout int `mapstructure:"op_timeout" validate:"gte=0"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password" validate:"required"`
	DBName            string `mapstructure:"db" validate:"required"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"gte=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"gte=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path" validate:"required"`
	// BusyTimeout is in milliseconds.
	BusyTimeout int `mapstructure:"busy_timeout" validate:"gte=0"`
}

// Validate checks the storage section and only the driver block it selects,
// so a sqlite deployment does not need postgres secrets.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.Storage); err != nil {
		return fmt.Errorf("storage config validation error: %w", err)
	}
	switch c.Storage.Driver {
	case DriverPostgres:
		if err := v.Struct(c.Postgres); err != nil {
			return fmt.Errorf("postgres config validation error: %w", err)
		}
	case DriverSQLite:
		if err := v.Struct(c.SQLite); err != nil {
			return fmt.Errorf("sqlite config validation error: %w", err)
		}
	}
	return nil
}
