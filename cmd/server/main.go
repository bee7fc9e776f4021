package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"cyclebay/backend/internal/cache"
	"cyclebay/backend/internal/config"
	"cyclebay/backend/internal/httpapi"
	"cyclebay/backend/internal/logging"
	"cyclebay/backend/internal/service"
	"cyclebay/backend/internal/store"
	"cyclebay/backend/internal/store/memory"
	"cyclebay/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func() error

	var repo store.Repository
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			// A configured database that cannot be reached is a deployment
			// problem; silently serving from memory would hide it.
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		closers = append(closers, func() error { pg.Close(); return nil })
		repo = pg
		log.Info().Msg("using postgres store")
	} else {
		repo = memory.NewSeeded()
		log.Info().Msg("DATABASE_URL not set, using seeded in-memory store")
	}

	var collectionCache cache.CollectionCache = cache.NoopCollectionCache{}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCollectionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, caching disabled")
			_ = redisCache.Close()
		} else {
			closers = append(closers, redisCache.Close)
			collectionCache = redisCache
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
		}
	}

	svc := service.New(repo, collectionCache, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	api := httpapi.New(svc, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}

	log.Info().Msg("server stopped")
	os.Exit(0)
}
