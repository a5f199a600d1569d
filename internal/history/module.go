// Package history exposes the service event ledger.
package history

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldservice_backend/internal/history/handler"
	"fieldservice_backend/internal/history/repository"
	apphttp "fieldservice_backend/internal/http"
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
