package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/smallplatform/personnel-api/internal/api"
	"github.com/smallplatform/personnel-api/internal/core/ports"
	"github.com/smallplatform/personnel-api/internal/core/service"
	"github.com/smallplatform/personnel-api/internal/core/token"
	"github.com/smallplatform/personnel-api/internal/infrastructure/config"
	mongostore "github.com/smallplatform/personnel-api/internal/infrastructure/db/mongo"
	redisstore "github.com/smallplatform/personnel-api/internal/infrastructure/db/redis"
	"github.com/smallplatform/personnel-api/internal/infrastructure/queue"
	"github.com/smallplatform/personnel-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("configuration failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index setup failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)

	feed := redisstore.NewLoginFeed(rdb)
	dispatcher := queue.NewDispatcher(0, service.NewFeedRecorder(feed), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Mongo:   db,
		Redis:   rdb,
		Tokens:  tokens,
		Hasher:  hasher,
		Publish: func(ev ports.LoginEvent) { dispatcher.Enqueue(ev) },
		Logger:  log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
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
