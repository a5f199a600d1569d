// Package services wires recurring-service CRUD.
package services

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/services/handler"
	"fieldservice_backend/internal/services/repository"
	"fieldservice_backend/internal/services/service"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/logger"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	if bus != nil {
		svc.SubscribeDeactivations(bus)
	}
	return &Module{
		Service: svc,
		handler: handler.New(svc),
	}
}

func (m *Module) Mount(rc apphttp.RouterContext) {
	m.handler.RegisterRoutes(rc.API)
}
