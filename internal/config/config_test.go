package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("EVENTHUB_DATABASE__URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "events", cfg.Database.Name)
	assert.Equal(t, int64(6), cfg.Resources.DefaultListLimit)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadConfig_NestedKeys(t *testing.T) {
	t.Setenv("EVENTHUB_PRIMARY__ENV", "production")
	t.Setenv("EVENTHUB_DATABASE__URI", "mongodb://db:27017")
	t.Setenv("EVENTHUB_DATABASE__CONNECT_TIMEOUT", "3s")
	t.Setenv("EVENTHUB_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("EVENTHUB_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("EVENTHUB_CACHE__ENABLED", "true")
	t.Setenv("EVENTHUB_OBSERVABILITY__LOGGING__LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_LegacyVariables(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://legacy:27017")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://legacy:27017", cfg.Database.URI)
	assert.Equal(t, "8080", cfg.Server.Port)

	t.Setenv("EVENTHUB_SERVER__PORT", "9090")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfig_MissingDatabaseURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URI")
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "error"
	assert.Equal(t, "error", cfg.GetLogLevel())
}

func TestObservabilityConfig_HasCheck(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HasCheck("database"))
	assert.True(t, cfg.HasCheck("redis"))

	cfg.HealthChecks.Checks = []string{"database"}
	assert.True(t, cfg.HasCheck("database"))
	assert.False(t, cfg.HasCheck("redis"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HasCheck("database"))
}
