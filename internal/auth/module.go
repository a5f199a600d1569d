// Package auth wires operator authentication.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldservice_backend/internal/auth/handler"
	"fieldservice_backend/internal/auth/repository"
	"fieldservice_backend/internal/auth/service"
	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/logger"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), cfg, log)
	return &Module{
		Service: svc,
		handler: handler.New(svc, log),
	}
}

func (m *Module) Mount(rc apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(rc.Public)
	m.handler.RegisterRoutes(rc.API)
}
