// Package technicians wires technician CRUD.
package technicians

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/technicians/handler"
	"fieldservice_backend/internal/technicians/repository"
	"fieldservice_backend/internal/technicians/service"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool) *Module {
	svc := service.New(repository.New(pool))
	return &Module{
		Service: svc,
		handler: handler.New(svc),
	}
}

func (m *Module) Mount(rc apphttp.RouterContext) {
	m.handler.RegisterRoutes(rc.API)
}
