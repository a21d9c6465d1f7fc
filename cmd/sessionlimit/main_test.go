package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/session-limit-service/internal/model"
	"github.com/maxviazov/session-limit-service/pkg/response"
)

func writeSQLiteConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := `
logger:
  env: test
  level: error
  output_target: stderr
storage:
  driver: sqlite
  auto_migrate: true
sqlite:
  path: ` + filepath.Join(dir, "cli.db") + `
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decodeLimit(t *testing.T, s string) model.SessionLimit {
	t.Helper()
	var out model.SessionLimit
	require.NoError(t, json.Unmarshal([]byte(s), &out), s)
	return out
}

func TestRun_Lifecycle(t *testing.T) {
	cfg := writeSQLiteConfig(t)

	code, out, errOut := runCLI(t, "--config", cfg, "create", "10")
	require.Equal(t, response.ExitOK, code, errOut)
	assert.Equal(t, model.SessionLimit{ID: 1, Limit: 10}, decodeLimit(t, out))

	code, out, errOut = runCLI(t, "--config", cfg, "update", "1", "20")
	require.Equal(t, response.ExitOK, code, errOut)
	assert.Equal(t, model.SessionLimit{ID: 1, Limit: 20}, decodeLimit(t, out))

	code, out, errOut = runCLI(t, "--config", cfg, "get", "1")
	require.Equal(t, response.ExitOK, code, errOut)
	assert.Equal(t, 20, decodeLimit(t, out).Limit)

	code, out, _ = runCLI(t, "--config", cfg, "list", "--limit", "10")
	require.Equal(t, response.ExitOK, code)
	assert.Contains(t, out, `"total": 1`)

	code, _, errOut = runCLI(t, "--config", cfg, "delete", "1")
	require.Equal(t, response.ExitOK, code, errOut)

	code, _, errOut = runCLI(t, "--config", cfg, "get", "1")
	assert.Equal(t, response.ExitNotFound, code)
	assert.Contains(t, errOut, "not_found")

	code, _, errOut = runCLI(t, "--config", cfg, "delete", "1")
	assert.Equal(t, response.ExitNotFound, code, errOut)
}

func TestRun_InvalidID(t *testing.T) {
	cfg := writeSQLiteConfig(t)
	code, _, errOut := runCLI(t, "--config", cfg, "get", "0")
	assert.Equal(t, response.ExitInvalidInput, code)
	assert.Contains(t, errOut, "invalid_input")
}

func TestRun_Ping(t *testing.T) {
	cfg := writeSQLiteConfig(t)
	code, out, _ := runCLI(t, "--config", cfg, "ping")
	assert.Equal(t, response.ExitOK, code)
	assert.Contains(t, out, "ready")
}

func TestRun_MissingArgument(t *testing.T) {
	cfg := writeSQLiteConfig(t)
	code, _, _ := runCLI(t, "--config", cfg, "create")
	assert.Equal(t, response.ExitInvalidInput, code)
}

func TestRun_HelpReturnsWithoutExiting(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"create", "--help"}} {
		code, out, _ := runCLI(t, args...)
		assert.Equal(t, response.ExitOK, code, "args %v", args)
		assert.Contains(t, out, "sessionlimit", "args %v", args)
	}
}

func TestRun_MissingConfig(t *testing.T) {
	code, _, errOut := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "ping")
	assert.Equal(t, response.ExitInternal, code)
	assert.Contains(t, errOut, "Config loading failed")
}
