package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/session-limit-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

// clearSecrets makes sure the developer's shell does not leak into the test.
func clearSecrets(t *testing.T) {
	for _, k := range []string{
		"APP_POSTGRES_USER", "APP_POSTGRES_PASSWORD", "APP_POSTGRES_DB", "APP_POSTGRES_HOST", "APP_POSTGRES_PORT",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "APP_STORAGE_DRIVER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, `
app:
  name: session-limit-service
  version: 0.1.0
  env: test

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339
  with_caller: false
  stacktrace: false

storage:
  driver: postgres
  op_timeout: 3

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
  max_conn_lifetime: 60
  max_conn_idle_time: 30
  health_check_period: 15
`)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.1.0", cfg.App.Version)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, 3, cfg.Storage.OpTimeout)
	assert.Equal(t, "rfc3339", cfg.Logger.TimeFormat)
	assert.Equal(t, "stdout", cfg.Logger.OutputTarget)
}

func TestLoad_FallbackEnvNames(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, "storage:\n  driver: postgres\n")
	t.Setenv("POSTGRES_USER", "pguser")
	t.Setenv("DB_PASSWORD", "dbpass")
	t.Setenv("DB_NAME", "dbname")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pguser", cfg.Postgres.User)
	assert.Equal(t, "dbpass", cfg.Postgres.Password)
	assert.Equal(t, "dbname", cfg.Postgres.DBName)
	assert.Equal(t, "localhost", cfg.Postgres.Host, "default host")
}

func TestLoad_MissingRequiredEnvFails(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, `
storage:
  driver: postgres
postgres:
  host: localhost
  port: 5432
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_SQLiteNeedsNoPostgresSecrets(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, `
storage:
  driver: sqlite
  auto_migrate: true
sqlite:
  path: /tmp/limits.db
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.AutoMigrate)
	assert.Equal(t, "/tmp/limits.db", cfg.SQLite.Path)
	assert.Equal(t, 5000, cfg.SQLite.BusyTimeout)
}

func TestLoad_EnvOverridesDriver(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, "storage:\n  driver: postgres\n")
	t.Setenv("APP_STORAGE_DRIVER", "sqlite")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, "storage:\n  driver: postgres\n")
	env := "APP_POSTGRES_USER=fromdotenv\nAPP_POSTGRES_PASSWORD=secret\nAPP_POSTGRES_DB=limits\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte(env), 0o600))
	// godotenv never overrides a variable that is present, even if empty;
	// t.Setenv from clearSecrets restores the originals afterwards
	for _, k := range []string{"APP_POSTGRES_USER", "APP_POSTGRES_PASSWORD", "APP_POSTGRES_DB"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromdotenv", cfg.Postgres.User)
	assert.Equal(t, "limits", cfg.Postgres.DBName)
}

func TestLoad_InvalidDriver(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, "storage:\n  driver: mongo\n")
	_, err := config.Load(path)
	assert.ErrorContains(t, err, "storage config validation error")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
