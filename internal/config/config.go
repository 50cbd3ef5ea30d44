// Package config defines the top-level configuration for the catalog
// resolver service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by CEXSYNC_* environment
// variables.
type Config struct {
	Binance  BinanceConfig  `toml:"binance"`
	Bybit    BybitConfig    `toml:"bybit"`
	Bitget   BitgetConfig   `toml:"bitget"`
	Resolver ResolverConfig `toml:"resolver"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// BinanceConfig holds Binance API credentials. The catalog endpoint is
// signed, so both key and secret are required when the venue is enabled.
type BinanceConfig struct {
	Enabled             bool   `toml:"enabled"`
	BaseURL             string `toml:"base_url"`
	ApiKey              string `toml:"api_key"`
	ApiSecret           string `toml:"api_secret"`
	EncryptedSecretPath string `toml:"encrypted_secret_path"`
	SecretPassword      string `toml:"secret_password"`
}

// BybitConfig holds Bybit API credentials.
type BybitConfig struct {
	Enabled             bool   `toml:"enabled"`
	BaseURL             string `toml:"base_url"`
	ApiKey              string `toml:"api_key"`
	ApiSecret           string `toml:"api_secret"`
	EncryptedSecretPath string `toml:"encrypted_secret_path"`
	SecretPassword      string `toml:"secret_password"`
}

// BitgetConfig holds Bitget parameters. The coins endpoint is public, so no
// credentials are needed.
type BitgetConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// ResolverConfig holds catalog refresh and resolution parameters.
type ResolverConfig struct {
	// RefreshInterval is how often the background refresher re-pulls venue
	// catalogs.
	RefreshInterval duration `toml:"refresh_interval"`
	// FetchTimeout bounds a single venue catalog request.
	FetchTimeout duration `toml:"fetch_timeout"`
	// CacheTTL is how long cached catalogs stay valid; 0 keeps them until
	// the next refresh overwrites them.
	CacheTTL duration `toml:"cache_ttl"`
	// PersistResolutions stores every resolver run in Postgres when true.
	PersistResolutions bool `toml:"persist_resolutions"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for snapshot
// archival.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	APIKey      string   `toml:"api_key"`
	CORSOrigins []string `toml:"cors_origins"`
	// RateLimit caps requests per minute per client on the public API;
	// 0 disables limiting.
	RateLimit int `toml:"rate_limit"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Binance: BinanceConfig{
			Enabled: true,
			BaseURL: "https://api.binance.com",
		},
		Bybit: BybitConfig{
			Enabled: true,
			BaseURL: "https://api.bybit.com",
		},
		Bitget: BitgetConfig{
			Enabled: true,
			BaseURL: "https://api.bitget.com",
		},
		Resolver: ResolverConfig{
			RefreshInterval:    duration{15 * time.Minute},
			FetchTimeout:       duration{45 * time.Second},
			CacheTTL:           duration{0},
			PersistResolutions: true,
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "cexsync",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "cexsync-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Port:      8080,
			RateLimit: 120,
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"server":  true,
	"refresh": true,
	"full":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, refresh, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if !c.Binance.Enabled && !c.Bybit.Enabled && !c.Bitget.Enabled {
		errs = append(errs, "at least one venue must be enabled")
	}

	// Binance and Bybit catalogs require signed requests.
	if c.Binance.Enabled {
		if c.Binance.ApiKey == "" {
			errs = append(errs, "binance: api_key is required when enabled")
		}
		if c.Binance.ApiSecret == "" && c.Binance.EncryptedSecretPath == "" {
			errs = append(errs, "binance: either api_secret or encrypted_secret_path must be set")
		}
		if c.Binance.EncryptedSecretPath != "" && c.Binance.SecretPassword == "" {
			errs = append(errs, "binance: secret_password is required when encrypted_secret_path is set")
		}
	}
	if c.Bybit.Enabled {
		if c.Bybit.ApiKey == "" {
			errs = append(errs, "bybit: api_key is required when enabled")
		}
		if c.Bybit.ApiSecret == "" && c.Bybit.EncryptedSecretPath == "" {
			errs = append(errs, "bybit: either api_secret or encrypted_secret_path must be set")
		}
		if c.Bybit.EncryptedSecretPath != "" && c.Bybit.SecretPassword == "" {
			errs = append(errs, "bybit: secret_password is required when encrypted_secret_path is set")
		}
	}

	if c.Resolver.RefreshInterval.Duration <= 0 {
		errs = append(errs, "resolver: refresh_interval must be positive")
	}
	if c.Resolver.FetchTimeout.Duration <= 0 {
		errs = append(errs, "resolver: fetch_timeout must be positive")
	}

	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
	}

	if c.Mode == "server" || c.Mode == "full" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server: rate_limit must be >= 0")
	}

	if c.Resolver.PersistResolutions && !c.Postgres.Enabled {
		errs = append(errs, "resolver: persist_resolutions requires postgres to be enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
