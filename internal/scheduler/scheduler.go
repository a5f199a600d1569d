// Package scheduler runs background schedule maintenance on asynq: a daily
// refresh task that recomputes the pending schedule and reports overdue work.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"fieldservice_backend/internal/schedule/recurrence"
	scheduleservice "fieldservice_backend/internal/schedule/service"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/logger"
)

// TaskDailyRefresh recomputes the pending schedule so drift (overdue growth,
// missed projections) is surfaced every day even when nobody opens the app.
const TaskDailyRefresh = "schedule:daily_refresh"

func NewDailyRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskDailyRefresh, nil)
}

// Worker processes background tasks.
type Worker struct {
	schedule *scheduleservice.Service
	log      *logger.Logger
}

func NewWorker(schedule *scheduleservice.Service, log *logger.Logger) *Worker {
	return &Worker{schedule: schedule, log: log}
}

// HandleDailyRefresh projects the full pending schedule and logs a summary.
func (w *Worker) HandleDailyRefresh(ctx context.Context, _ *asynq.Task) error {
	instances, err := w.schedule.PendingInstances(ctx, nil, time.Time{})
	if err != nil {
		return fmt.Errorf("daily refresh: %w", err)
	}

	today := recurrence.Today()
	overdue := 0
	for _, inst := range instances {
		if inst.Date.Before(today) {
			overdue++
		}
	}
	w.log.Info("daily_refresh",
		"pending", len(instances),
		"overdue", overdue,
	)
	return nil
}

// NewServer builds the asynq worker server and its mux.
func NewServer(cfg config.SchedulerConfig, worker *Worker, log *logger.Logger) (*asynq.Server, *asynq.ServeMux, error) {
	opt, err := asynq.ParseRedisURI(cfg.GetRedisURL())
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("task_failed", "type", task.Type(), "error", err.Error())
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDailyRefresh, worker.HandleDailyRefresh)
	return srv, mux, nil
}

// NewPeriodicScheduler enqueues the daily refresh on an interval.
func NewPeriodicScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*asynq.Scheduler, error) {
	opt, err := asynq.ParseRedisURI(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Error("task_enqueue_failed", "error", err.Error())
			}
		},
	})
	if _, err := sched.Register(
		fmt.Sprintf("@every %s", cfg.GetDailyRefreshInterval()),
		NewDailyRefreshTask(),
		asynq.Queue(cfg.GetAsynqQueueName()),
	); err != nil {
		return nil, fmt.Errorf("register daily refresh: %w", err)
	}
	return sched, nil
}
