package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accounthub/account-service/internal/api"
	"github.com/accounthub/account-service/internal/core/auth"
	"github.com/accounthub/account-service/internal/infrastructure/config"
	"github.com/accounthub/account-service/internal/infrastructure/db/postgres"
	redisinfra "github.com/accounthub/account-service/internal/infrastructure/db/redis"
	"github.com/accounthub/account-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; stderr is all we have.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	rdb, err := redisinfra.ConnectOptional(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	if rdb == nil {
		log.Info().Msg("redis not configured, login throttle disabled")
	} else {
		defer rdb.Close()
	}

	e := api.NewRouter(api.Options{
		DB:     db,
		Redis:  rdb,
		Tokens: auth.NewTokenManager(auth.TokenConfig{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}),
		Hasher: auth.NewPasswordHasher(cfg.BcryptCost),
		Log:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
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
