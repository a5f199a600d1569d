// The scheduler binary runs the background worker and the periodic enqueuer
// for schedule maintenance tasks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fieldservice_backend/internal/schedule"
	"fieldservice_backend/internal/scheduler"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/db"
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

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// The worker only reads the schedule, so it runs without the processing
	// lock or the event bus.
	scheduleModule := schedule.New(pool, nil, nil, log, cfg.ProjectionHorizonDays)
	worker := scheduler.NewWorker(scheduleModule.Service, log)

	srv, mux, err := scheduler.NewServer(cfg, worker, log)
	if err != nil {
		return err
	}
	periodic, err := scheduler.NewPeriodicScheduler(cfg, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("worker_start", "queue", cfg.AsynqQueueName, "concurrency", cfg.AsynqConcurrency)
		return srv.Run(mux)
	})
	g.Go(func() error {
		return periodic.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		periodic.Shutdown()
		srv.Shutdown()
		return nil
	})
	return g.Wait()
}
