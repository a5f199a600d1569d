// Package service holds job-site business rules: phone normalization and
// soft deactivation that fans out to the site's recurring services.
package service

import (
	"context"

	"github.com/google/uuid"

	domainevents "fieldservice_backend/internal/events"
	"fieldservice_backend/internal/jobsites/repository"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/phone"
)

type Service struct {
	repo repository.Store
	bus  events.Bus
}

func New(repo repository.Store, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]repository.JobSite, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.JobSite, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, site repository.JobSite) (repository.JobSite, error) {
	site.ContactPhone = phone.NormalizeE164(site.ContactPhone)
	return s.repo.Create(ctx, site)
}

func (s *Service) Update(ctx context.Context, site repository.JobSite) (repository.JobSite, error) {
	site.ContactPhone = phone.NormalizeE164(site.ContactPhone)
	return s.repo.Update(ctx, site)
}

// Deactivate soft-deletes a site and announces it so the site's recurring
// services stop projecting.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(ctx, domainevents.JobSiteDeactivated{
			BaseEvent: events.NewBaseEvent(),
			JobSiteID: id,
		})
	}
	return nil
}
