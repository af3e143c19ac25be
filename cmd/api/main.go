package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusfest/festreg/internal/cache"
	"github.com/campusfest/festreg/internal/config"
	"github.com/campusfest/festreg/internal/db"
	httpx "github.com/campusfest/festreg/internal/http"
	"github.com/campusfest/festreg/internal/observability"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is optional, skip when no collector is configured
	if cfg.OtelEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "festreg", cfg.OtelEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	// keep retrying the database, first boot often races the container
	pool, err := db.Connect(context.Background(), log, cfg.DBURL)

	if err != nil {
		log.Error("database bootstrap abandoned", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	schemaCtx, cancelSchema := config.WithTimeout(10 * time.Second)
	err = db.EnsureSchema(schemaCtx, pool)
	cancelSchema()

	if err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	eventsCache := cache.New(cfg.RedisAddr)
	defer func() { _ = eventsCache.Close() }()

	if eventsCache != nil {
		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
		if err := eventsCache.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, events cache degraded", "err", err)
		}
		cancelPing()
	}

	router := httpx.NewRouter(log, cfg, pool, eventsCache)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "uploads", cfg.UploadDir)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
