// Command api serves the HBnB JSON API.
//
// @title        HBnB API
// @version      1.0
// @description  CRUD API over amenities, users, states and cities.
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hbnb-clone/hbnb-api/internal/api"
	"github.com/hbnb-clone/hbnb-api/internal/app"
	"github.com/hbnb-clone/hbnb-api/internal/pkg/config"
	"github.com/hbnb-clone/hbnb-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "hbnb-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open dependencies")
	}
	defer func() {
		if err := deps.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	e := api.NewRouter(api.Deps{
		Resources:    deps.Resources,
		Auth:         deps.Auth,
		Checks:       deps.Checks,
		Logger:       logger.For("http"),
		JWTSecret:    cfg.JWTSecret,
		AuthRequired: cfg.AuthRequired,
	})

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	go func() {
		log.Info().Str("addr", addr).Msg("api listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
