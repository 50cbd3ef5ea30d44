package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	// Defaults enable the signed venues without credentials; disable them to
	// get a self-contained valid config.
	cfg.Binance.Enabled = false
	cfg.Bybit.Enabled = false
	cfg.Resolver.PersistResolutions = false

	require.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "turbo"
	cfg.LogLevel = "verbose"
	cfg.Binance.Enabled = false
	cfg.Bybit.Enabled = false
	cfg.Bitget.Enabled = false
	cfg.Resolver.RefreshInterval = duration{0}
	cfg.Server.RateLimit = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "at least one venue")
	assert.Contains(t, err.Error(), "refresh_interval")
	assert.Contains(t, err.Error(), "rate_limit")
}

func TestValidateVenueCredentials(t *testing.T) {
	cfg := Defaults()
	cfg.Bybit.Enabled = false
	cfg.Resolver.PersistResolutions = false

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binance: api_key")

	cfg.Binance.ApiKey = "k"
	cfg.Binance.EncryptedSecretPath = "/etc/cexsync/binance.json"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binance: secret_password")

	cfg.Binance.SecretPassword = "pw"
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "refresh"
log_level = "debug"

[binance]
enabled = true
api_key = "file-key"
api_secret = "file-secret"

[resolver]
refresh_interval = "5m"
fetch_timeout = "10s"
`), 0o600))

	t.Setenv("CEXSYNC_BINANCE_API_KEY", "env-key")
	t.Setenv("CEXSYNC_REDIS_ENABLED", "true")
	t.Setenv("CEXSYNC_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "refresh", cfg.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Resolver.RefreshInterval.Duration)
	// Environment overrides the file.
	assert.Equal(t, "env-key", cfg.Binance.ApiKey)
	assert.Equal(t, "file-secret", cfg.Binance.ApiSecret)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	// Untouched sections keep their defaults.
	assert.Equal(t, "https://api.bitget.com", cfg.Bitget.BaseURL)
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Binance.ApiSecret = "s3cret"
	cfg.Redis.Password = "hunter2"
	cfg.Notify.TelegramToken = "tok"

	red := RedactedConfig(&cfg)

	assert.Equal(t, "***", red.Binance.ApiSecret)
	assert.Equal(t, "***", red.Redis.Password)
	assert.Equal(t, "***", red.Notify.TelegramToken)
	// The original is untouched.
	assert.Equal(t, "s3cret", cfg.Binance.ApiSecret)
	// Empty fields stay empty rather than gaining a placeholder.
	assert.Empty(t, red.Bybit.ApiSecret)
}
