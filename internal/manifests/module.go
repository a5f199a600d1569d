// Package manifests exposes the compliance manifest ledger and its CSV export.
package manifests

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/manifests/handler"
	"fieldservice_backend/internal/manifests/repository"
)

type Module struct {
	handler *handler.Handler
}

func New(pool *pgxpool.Pool) *Module {
	return &Module{handler: handler.New(repository.New(pool))}
}

func (m *Module) Mount(rc apphttp.RouterContext) {
	m.handler.RegisterRoutes(rc.API)
}
