package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_ConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tasks.yaml", `
database:
  driver: sqlite
  dir: /srv/tasks
  query_timeout: 2s
server:
  port: 8081
validation:
  title_max_length: 80
logging:
  level: debug
  format: json
`)

	cfg, err := NewLoader(WithConfigFile(path), WithEnvFiles()).Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/tasks", cfg.Database.Dir)
	assert.Equal(t, "tasks.db", cfg.Database.Filename, "unset keys keep defaults")
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 80, cfg.Validation.TitleMaxLength)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))).Load()
	assert.Error(t, err)
}

func TestLoader_InvalidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tasks.yaml", "server: [not, a, map")

	_, err := NewLoader(WithConfigFile(path), WithEnvFiles()).Load()
	assert.Error(t, err)
}

func TestLoader_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tasks.yaml", "server:\n  port: 8081\n")
	t.Setenv("TASKS_PORT", "9000")

	cfg, err := NewLoader(WithConfigFile(path), WithEnvFiles()).Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoader_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "TASKS_VALIDATION_TITLE_MAX=33\n")
	t.Setenv("TASKS_VALIDATION_TITLE_MAX", "")
	os.Unsetenv("TASKS_VALIDATION_TITLE_MAX")

	cfg, err := NewLoader(WithEnvFiles(envFile)).Load()
	require.NoError(t, err)
	assert.Equal(t, 33, cfg.Validation.TitleMaxLength)
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	t.Setenv("TASKS_PORT", "9000")

	port := 7000
	maxLen := 10
	driver := "sqlite"
	dsn := ":memory:"
	overrides := &ConfigOverrides{
		Port:           &port,
		TitleMaxLength: &maxLen,
		DBDriver:       &driver,
		DBDSN:          &dsn,
	}

	cfg, err := NewLoader(WithEnvFiles()).LoadWithOverrides(overrides)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port, "flags override environment")
	assert.Equal(t, 10, cfg.Validation.TitleMaxLength)
	assert.Equal(t, ":memory:", cfg.GetDSN())
}

func TestLoader_LoadWithOverrides_Invalid(t *testing.T) {
	format := "xml"
	_, err := NewLoader(WithEnvFiles()).LoadWithOverrides(&ConfigOverrides{LogFormat: &format})

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "logging.format", configErr.Field)
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDurationWithFallback("5s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("nope", time.Second))
	assert.Equal(t, 42, ParseIntWithFallback("42", 1))
	assert.Equal(t, 1, ParseIntWithFallback("x", 1))
	assert.True(t, ParseBoolWithFallback("true", false))
	assert.False(t, ParseBoolWithFallback("maybe", false))
	assert.Equal(t, uint32(0755), ParseUint32WithFallback("755", 8, 0))
	assert.Equal(t, uint32(1), ParseUint32WithFallback("9", 8, 1))
}
