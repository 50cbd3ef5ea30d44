package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/cexsync/cexsync/internal/blob/s3"
	"github.com/cexsync/cexsync/internal/cache/redis"
	"github.com/cexsync/cexsync/internal/config"
	"github.com/cexsync/cexsync/internal/crypto"
	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/notify"
	"github.com/cexsync/cexsync/internal/store/postgres"
	"github.com/cexsync/cexsync/internal/venue"
	"github.com/cexsync/cexsync/internal/venue/binance"
	"github.com/cexsync/cexsync/internal/venue/bitget"
	"github.com/cexsync/cexsync/internal/venue/bybit"
)

// Dependencies bundles every domain-level dependency the application modes
// need. It is constructed by Wire and torn down by the returned cleanup
// function. Infrastructure behind a disabled config section stays nil;
// consumers degrade accordingly.
type Dependencies struct {
	// Venue adapters, in configured order.
	Venues []venue.Venue

	// Redis-backed infrastructure (nil when redis is disabled).
	CatalogCache domain.CatalogCache
	RateLimiter  domain.RateLimiter
	LockManager  domain.LockManager
	SignalBus    domain.SignalBus

	// Postgres persistence (nil when postgres is disabled or persistence
	// is switched off).
	ResolutionStore domain.ResolutionStore

	// S3 blob storage (nil when s3 is disabled).
	BlobWriter domain.BlobWriter
	BlobReader domain.BlobReader
	Archiver   domain.SnapshotArchiver

	// Notifications.
	Notifier *notify.Notifier
}

// Wire constructs the concrete dependency implementations from the given
// configuration and returns them with a cleanup function to be called on
// shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Venue adapters ---
	if cfg.Binance.Enabled {
		secret, err := crypto.LoadSecret(crypto.SecretConfig{
			RawSecret:           cfg.Binance.ApiSecret,
			EncryptedSecretPath: cfg.Binance.EncryptedSecretPath,
			Password:            cfg.Binance.SecretPassword,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: binance secret: %w", err)
		}
		deps.Venues = append(deps.Venues, binance.NewClient(cfg.Binance.BaseURL, cfg.Binance.ApiKey, secret))
	}
	if cfg.Bybit.Enabled {
		secret, err := crypto.LoadSecret(crypto.SecretConfig{
			RawSecret:           cfg.Bybit.ApiSecret,
			EncryptedSecretPath: cfg.Bybit.EncryptedSecretPath,
			Password:            cfg.Bybit.SecretPassword,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: bybit secret: %w", err)
		}
		deps.Venues = append(deps.Venues, bybit.NewClient(cfg.Bybit.BaseURL, cfg.Bybit.ApiKey, secret))
	}
	if cfg.Bitget.Enabled {
		deps.Venues = append(deps.Venues, bitget.NewClient(cfg.Bitget.BaseURL))
	}

	// --- Redis ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.CatalogCache = redis.NewCatalogCache(redisClient, cfg.Resolver.CacheTTL.Duration)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.LockManager = redis.NewLockManager(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
	}

	// --- Postgres ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		if cfg.Resolver.PersistResolutions {
			deps.ResolutionStore = postgres.NewResolutionStore(pgClient.Pool())
		}
	}

	// --- S3 blob storage ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		writer := s3blob.NewWriter(s3Client)
		deps.BlobWriter = writer
		deps.BlobReader = s3blob.NewReader(s3Client)
		deps.Archiver = s3blob.NewSnapshotArchiver(writer)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
	}

	return deps, cleanup, nil
}
