package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
http:
  port: 8080
  maxConcurrent: 64
database:
  host: localhost
  port: 5432
  user: app
  password: secret
  database: app
rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
redis:
  addr: localhost:6379
jwt:
  secretKey: test-secret
  ttl: 90m
tracking:
  prepDelayMin: 10ms
  prepDelayMax: 20ms
  tickInterval: 5ms
  graceDelay: 1ms
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadParsesDurations(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWT.TTL.Std())
	assert.Equal(t, 10*time.Millisecond, cfg.Tracking.PrepDelayMin.Std())
	assert.Equal(t, 20*time.Millisecond, cfg.Tracking.PrepDelayMax.Std())
	assert.Equal(t, 5*time.Millisecond, cfg.Tracking.TickInterval.Std())
}

func TestLoadDefaultsJWTTTL(t *testing.T) {
	yaml := `
http:
  port: 8080
database:
  host: localhost
  port: 5432
  user: app
  password: secret
  database: app
rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
redis:
  addr: localhost:6379
jwt:
  secretKey: test-secret
`
	cfg, err := Load(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL.Std())
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("FUELNFIX_DB_PASSWORD", "env-db-pass")
	t.Setenv("FUELNFIX_JWT_SECRET", "env-jwt-secret")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-db-pass", cfg.Database.Password)
	assert.Equal(t, "env-jwt-secret", cfg.JWT.SecretKey)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	bad := strings.Replace(validYAML, "graceDelay: 1ms", "graceDelay: soon", 1)

	_, err := Load(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadRejectsInvertedPrepDelays(t *testing.T) {
	inverted := `
http:
  port: 8080
database:
  host: localhost
  port: 5432
  user: app
  password: secret
  database: app
rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
redis:
  addr: localhost:6379
jwt:
  secretKey: test-secret
tracking:
  prepDelayMin: 20s
  prepDelayMax: 10s
`
	_, err := Load(writeConfig(t, inverted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prepDelayMax")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
