// Package jobsites wires job-site CRUD.
package jobsites

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/jobsites/handler"
	"fieldservice_backend/internal/jobsites/repository"
	"fieldservice_backend/internal/jobsites/service"
	"fieldservice_backend/platform/events"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, bus events.Bus) *Module {
	svc := service.New(repository.New(pool), bus)
	return &Module{
		Service: svc,
		handler: handler.New(svc),
	}
}

func (m *Module) Mount(rc apphttp.RouterContext) {
	m.handler.RegisterRoutes(rc.API)
}
