// Package schedule wires the scheduling engine: projection of recurring
// services, batch action processing, and smart reschedule resolution.
package schedule

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/schedule/handler"
	"fieldservice_backend/internal/schedule/repository"
	"fieldservice_backend/internal/schedule/service"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/lock"
	"fieldservice_backend/platform/logger"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, locker *lock.Locker, bus events.Bus, log *logger.Logger, horizonDays int) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, lockAdapter{locker}, bus, log, horizonDays)
	return &Module{
		Service: svc,
		handler: handler.New(svc, log),
	}
}

func (m *Module) Mount(rc apphttp.RouterContext) {
	m.handler.RegisterRoutes(rc.API)
}

// lockAdapter narrows the Redis locker to the shape the service needs.
type lockAdapter struct {
	locker *lock.Locker
}

func (a lockAdapter) Acquire(ctx context.Context) (func(context.Context) error, error) {
	lease, err := a.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return lease.Release, nil
}
