// Package service holds technician business rules: phone normalization and
// soft deactivation, so past ledger attributions stay intact.
package service

import (
	"context"

	"github.com/google/uuid"

	"fieldservice_backend/internal/technicians/repository"
	"fieldservice_backend/platform/phone"
)

type Service struct {
	repo repository.Store
}

func New(repo repository.Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]repository.Technician, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Technician, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, tech repository.Technician) (repository.Technician, error) {
	tech.Phone = phone.NormalizeE164(tech.Phone)
	return s.repo.Create(ctx, tech)
}

func (s *Service) Update(ctx context.Context, tech repository.Technician) (repository.Technician, error) {
	tech.Phone = phone.NormalizeE164(tech.Phone)
	return s.repo.Update(ctx, tech)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
