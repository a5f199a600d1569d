// Package service enforces recurring-service rules: frequency vocabulary,
// day-constraint names, and deactivation fan-out from job sites.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainevents "fieldservice_backend/internal/events"
	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/internal/services/repository"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/logger"
)

type Service struct {
	repo repository.Store
	log  *logger.Logger
}

func New(repo repository.Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SubscribeDeactivations deactivates a site's recurring services when the
// site itself is deactivated.
func (s *Service) SubscribeDeactivations(bus events.Bus) {
	bus.Subscribe(domainevents.JobSiteDeactivatedName, events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			e, ok := event.(domainevents.JobSiteDeactivated)
			if !ok {
				return nil
			}
			n, err := s.repo.DeactivateByJobSite(ctx, e.JobSiteID)
			if err != nil {
				return err
			}
			s.log.Info("services_deactivated_with_site",
				"job_site_id", e.JobSiteID.String(), "count", n)
			return nil
		}))
}

func (s *Service) List(ctx context.Context, jobSiteID uuid.UUID, includeInactive bool) ([]repository.Service, error) {
	return s.repo.List(ctx, jobSiteID, includeInactive)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Service, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, svc repository.Service) (repository.Service, error) {
	if err := validate(svc); err != nil {
		return repository.Service{}, err
	}
	return s.repo.Create(ctx, svc)
}

func (s *Service) Update(ctx context.Context, svc repository.Service) (repository.Service, error) {
	if err := validate(svc); err != nil {
		return repository.Service{}, err
	}
	return s.repo.Update(ctx, svc)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

// NextOccurrence computes the next projected date for one service, if any.
func (s *Service) NextOccurrence(svc repository.Service) (string, bool) {
	if svc.LastServiceDate == nil {
		return "", false
	}
	next, ok := recurrence.NextOccurrence(*svc.LastServiceDate, svc.Frequency, svc.DayConstraint)
	if !ok {
		return "", false
	}
	return recurrence.FormatDate(next), true
}

func validate(svc repository.Service) error {
	if !recurrence.IsValidFrequency(svc.Frequency) {
		return apperr.Validation(fmt.Sprintf("unknown frequency %q", svc.Frequency))
	}
	if svc.DayConstraint != "" {
		if _, ok := recurrence.ParseWeekday(svc.DayConstraint); !ok {
			return apperr.Validation(fmt.Sprintf("unknown day constraint %q", svc.DayConstraint))
		}
	}
	return nil
}
