// Package bootstrap wires configuration, persistence, cache, notifications and the
// store services into one runtime for the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"giftlist/internal/cache"
	"giftlist/internal/config"
	"giftlist/internal/database"
	"giftlist/internal/notifications"
	"giftlist/internal/observability"
	"giftlist/internal/repository"
	"giftlist/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "giftlist"

// Runtime holds the initialised dependencies of a command.
type Runtime struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Notifier *notifications.Notifier
	Store    repository.Store
	Services *service.Services

	shutdownTracing func(context.Context) error
}

// New configures logging and tracing, connects to the database and Redis, and builds
// the services.
func New(cfg *config.Config) (*Runtime, error) {
	observability.ConfigureLogger(cfg.Env, cfg.LogLevel, cfg.LogFormat)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  serviceName,
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rt := NewWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL))
	rt.shutdownTracing = shutdownTracing
	return rt, nil
}

// NewWithDeps builds a Runtime from already-initialised dependencies. A nil Redis
// client runs the store without cache or notifications.
func NewWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Runtime {
	cache.SetClient(rdb)
	notifier := notifications.NewNotifier(rdb)
	store := repository.NewStore(db)
	return &Runtime{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Notifier: notifier,
		Store:    store,
		Services: service.NewServices(store, notifier),
	}
}

// Shutdown flushes traces and closes the database and Redis connections.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.shutdownTracing != nil {
		if err := r.shutdownTracing(ctx); err != nil {
			log.Printf("error shutting down tracing: %v", err)
		}
	}

	if err := database.Close(r.DB); err != nil {
		log.Printf("error closing sql DB: %v", err)
	}

	if r.Redis != nil {
		if cache.GetClient() == r.Redis {
			cache.SetClient(nil)
		}
		if err := r.Redis.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}
	return nil
}
