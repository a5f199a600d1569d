package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"fieldservice_backend/internal/auth"
	"fieldservice_backend/internal/history"
	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/http/router"
	"fieldservice_backend/internal/jobsites"
	"fieldservice_backend/internal/manifests"
	"fieldservice_backend/internal/schedule"
	"fieldservice_backend/internal/services"
	"fieldservice_backend/internal/technicians"
	"fieldservice_backend/migrations"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/db"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/lock"
	"fieldservice_backend/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := withRetry(ctx, log, "connect database", func() (*pgxpool.Pool, error) {
		return db.NewPool(ctx, cfg)
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, migrations.FS, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	bus := events.NewInMemoryBus(log)
	locker := lock.New(redisClient, cfg.LockTTL, cfg.LockWait)

	modules := []apphttp.Module{
		auth.New(pool, cfg, log),
		schedule.New(pool, locker, bus, log, cfg.ProjectionHorizonDays),
		jobsites.New(pool, bus),
		services.New(pool, bus, log),
		technicians.New(pool),
		history.New(pool),
		manifests.New(pool),
	}

	engine, rc := router.New(router.Config{
		Env:  cfg.Env,
		HTTP: cfg,
		JWT:  cfg,
		Log:  log,
	})
	for _, m := range modules {
		m.Mount(rc)
	}

	return apphttp.NewServer(cfg.HTTPAddr, engine, log).Run(ctx)
}

// withRetry retries startup dependencies a few times before giving up, so a
// cold compose stack can come up in any order.
func withRetry[T any](ctx context.Context, log *logger.Logger, what string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		log.Warn("startup_retry", "step", what, "attempt", attempt, "error", err.Error())
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return zero, fmt.Errorf("%s: %w", what, lastErr)
}
