package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/baticonnect/portal/internal/api"
	"github.com/baticonnect/portal/internal/api/handler"
	"github.com/baticonnect/portal/internal/api/metrics"
	"github.com/baticonnect/portal/internal/api/middleware"
	"github.com/baticonnect/portal/internal/core/ports"
	"github.com/baticonnect/portal/internal/infrastructure/backend"
	"github.com/baticonnect/portal/internal/infrastructure/db/memory"
	mongostore "github.com/baticonnect/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/baticonnect/portal/internal/infrastructure/db/redis"
	"github.com/baticonnect/portal/internal/infrastructure/sealer"
	"github.com/baticonnect/portal/internal/pkg/config"
	"github.com/baticonnect/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := pflag.String("env-file", ".env", "optional dotenv file loaded before the environment")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		// The logger is not configured yet.
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("failed to open session storage")
	}
	defer closeStorage()

	tokenSealer, err := sealer.New(cfg.Session.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token sealer")
	}

	client := backend.New(backend.Config{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		Observer: metrics.ObserveBackend,
	}, log.With().Str("component", "backend").Logger())

	e, err := api.NewRouter(api.Deps{
		Backend: client,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secret:     cfg.Session.Secret,
			Secure:     cfg.Session.CookieSecure,
			TTL:        cfg.Session.TTL,
			Storage:    storage,
			Sealer:     tokenSealer,
		},
		Checks: map[string]handler.Check{
			"session_store": storage.Ping,
			"backend":       client.Ping,
		},
		Log: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("api", client.BaseURL()).Str("store", cfg.Session.Store).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStorage connects the configured session storage and returns it with
// its cleanup function.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStorage, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		storage, closeFn, err := redisstore.Open(ctx, cfg.Redis, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		return storage, closeFn, nil
	case config.StoreMongo:
		storage, closeFn, err := mongostore.Open(ctx, cfg.Mongo, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		return storage, closeFn, nil
	}

	log.Warn().Msg("using in-memory session storage; sessions do not survive a restart")
	return memory.NewSessionStorage(), func() {}, nil
}
