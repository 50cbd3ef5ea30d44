package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CEXSYNC_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known CEXSYNC_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Binance ──
	setBool(&cfg.Binance.Enabled, "CEXSYNC_BINANCE_ENABLED")
	setStr(&cfg.Binance.BaseURL, "CEXSYNC_BINANCE_BASE_URL")
	setStr(&cfg.Binance.ApiKey, "CEXSYNC_BINANCE_API_KEY")
	setStr(&cfg.Binance.ApiSecret, "CEXSYNC_BINANCE_API_SECRET")
	setStr(&cfg.Binance.EncryptedSecretPath, "CEXSYNC_BINANCE_ENCRYPTED_SECRET_PATH")
	setStr(&cfg.Binance.SecretPassword, "CEXSYNC_BINANCE_SECRET_PASSWORD")

	// ── Bybit ──
	setBool(&cfg.Bybit.Enabled, "CEXSYNC_BYBIT_ENABLED")
	setStr(&cfg.Bybit.BaseURL, "CEXSYNC_BYBIT_BASE_URL")
	setStr(&cfg.Bybit.ApiKey, "CEXSYNC_BYBIT_API_KEY")
	setStr(&cfg.Bybit.ApiSecret, "CEXSYNC_BYBIT_API_SECRET")
	setStr(&cfg.Bybit.EncryptedSecretPath, "CEXSYNC_BYBIT_ENCRYPTED_SECRET_PATH")
	setStr(&cfg.Bybit.SecretPassword, "CEXSYNC_BYBIT_SECRET_PASSWORD")

	// ── Bitget ──
	setBool(&cfg.Bitget.Enabled, "CEXSYNC_BITGET_ENABLED")
	setStr(&cfg.Bitget.BaseURL, "CEXSYNC_BITGET_BASE_URL")

	// ── Resolver ──
	setDuration(&cfg.Resolver.RefreshInterval, "CEXSYNC_RESOLVER_REFRESH_INTERVAL")
	setDuration(&cfg.Resolver.FetchTimeout, "CEXSYNC_RESOLVER_FETCH_TIMEOUT")
	setDuration(&cfg.Resolver.CacheTTL, "CEXSYNC_RESOLVER_CACHE_TTL")
	setBool(&cfg.Resolver.PersistResolutions, "CEXSYNC_RESOLVER_PERSIST_RESOLUTIONS")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "CEXSYNC_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "CEXSYNC_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "CEXSYNC_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "CEXSYNC_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "CEXSYNC_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "CEXSYNC_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "CEXSYNC_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "CEXSYNC_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "CEXSYNC_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "CEXSYNC_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "CEXSYNC_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "CEXSYNC_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "CEXSYNC_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "CEXSYNC_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CEXSYNC_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "CEXSYNC_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "CEXSYNC_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "CEXSYNC_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "CEXSYNC_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "CEXSYNC_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "CEXSYNC_S3_REGION")
	setStr(&cfg.S3.Bucket, "CEXSYNC_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "CEXSYNC_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "CEXSYNC_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "CEXSYNC_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "CEXSYNC_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "CEXSYNC_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "CEXSYNC_SERVER_API_KEY")
	setStringSlice(&cfg.Server.CORSOrigins, "CEXSYNC_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RateLimit, "CEXSYNC_SERVER_RATE_LIMIT")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "CEXSYNC_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "CEXSYNC_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "CEXSYNC_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "CEXSYNC_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "CEXSYNC_MODE")
	setStr(&cfg.LogLevel, "CEXSYNC_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
