package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "CORS_ALLOWED_ORIGINS", "TRUSTED_PROXIES",
	"DB_DSN", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB", "POSTGRES_SSLMODE", "DB_AUTO_MIGRATE",
	"JWT_CRYPT_KEY", "JWT_TOKEN_TIMEOUT_MINS", "AUTH_REQUIRED",
	"LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
	"LOGIN_RATE_LIMIT_PER_MIN", "REDIS_URL", "RATE_LIMIT_FAIL_OPEN",
	"KAFKA_BROKERS", "KAFKA_TOPIC",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SAMPLING_RATIO",
	"POPULATE_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "", cfg.DB.ConnString())
	assert.Equal(t, 20, cfg.RateLimit.LoginPerMinute)
	assert.False(t, cfg.Populate.Enabled)
	assert.Equal(t, "dogpass.timeline", cfg.Kafka.Topic)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_CRYPT_KEY", "k")
	t.Setenv("JWT_TOKEN_TIMEOUT_MINS", "15")
	t.Setenv("AUTH_REQUIRED", "TRUE")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "*")
	t.Setenv("POPULATE_ENABLED", "true")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.25")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr())
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL())
	assert.True(t, cfg.Auth.Required)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowedOrigins)
	assert.True(t, cfg.Populate.Enabled)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestConnStringFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_USER", "dog")
	t.Setenv("POSTGRES_PASSWORD", "p@ss")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DB", "dogpass")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://dog:p%40ss@db:5432/dogpass?sslmode=disable", cfg.DB.ConnString())

	t.Setenv("DB_DSN", "postgres://x@y/z")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://x@y/z", cfg.DB.ConnString())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: "7000"
auth:
  secret: from-file
  token_ttl_minutes: 30
rate_limit:
  login_per_minute: 5
`), 0o600))

	t.Setenv("JWT_TOKEN_TIMEOUT_MINS", "45")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.HTTP.Port)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.Equal(t, 45*time.Minute, cfg.Auth.TokenTTL())
	assert.Equal(t, 5, cfg.RateLimit.LoginPerMinute)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_REQUIRED", "yes please")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_REQUIRED")

	clearEnv(t)
	t.Setenv("JWT_TOKEN_TIMEOUT_MINS", "ten")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TOKEN_TIMEOUT_MINS")

	clearEnv(t)
	t.Setenv("AUTH_REQUIRED", "true")
	_, err = Load("")
	require.Error(t, err)
}

func TestTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")
	cfg, err := Load("")
	require.NoError(t, err)

	prefixes, err := cfg.HTTP.TrustedProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 2)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.168.1.10/32", prefixes[1].String())

	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "not-an-ip")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
