// Package app wires configuration into the storage backend and services
// shared by the hbnb binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbnb-clone/hbnb-api/internal/api/handler"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
	"github.com/hbnb-clone/hbnb-api/internal/core/service"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/mongo"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/redis"
	"github.com/hbnb-clone/hbnb-api/internal/pkg/config"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Storage   ports.Storage
	Resources *service.ResourceService
	Auth      *service.AuthService
	// Checks are the dependencies probed by readiness.
	Checks map[string]handler.Pinger

	idem *redis.IdempotencyStore
	log  zerolog.Logger
}

// Open connects the configured storage and, when REDIS_ADDR is set, the
// idempotency store.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := db.Open(ctx, db.Config{
		Type:       cfg.Storage.Type,
		FilePath:   cfg.Storage.FilePath,
		SQLitePath: cfg.Storage.SQLitePath,
		Mongo:      mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database},
	})
	if err != nil {
		return nil, err
	}
	a := &App{
		Storage: store,
		Checks:  map[string]handler.Pinger{"storage": store},
		log:     log,
	}

	opts := []service.Option{}
	if cfg.Redis.Addr != "" {
		idem, err := redis.Open(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("open idempotency store: %w", err)
		}
		a.idem = idem
		a.Checks["redis"] = idem
		opts = append(opts, service.WithIdempotency(idem))
	}

	a.Resources = service.NewResourceService(store, log.With().Str("component", "resources").Logger(), opts...)
	a.Auth = service.NewAuthService(store, cfg.JWTSecret, 24*time.Hour)
	log.Info().Str("storage", cfg.Storage.Type).Bool("idempotency", a.idem != nil).Msg("dependencies ready")
	return a, nil
}

// Close releases the storage backend and the idempotency store.
func (a *App) Close(ctx context.Context) error {
	if a.idem != nil {
		if err := a.idem.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close failed")
		}
	}
	return a.Storage.Close(ctx)
}
