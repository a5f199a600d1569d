package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainevents "fieldservice_backend/internal/events"
	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/internal/schedule/repository"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/lock"
)

// ProcessBatch validates a batch against the current pending schedule and,
// when valid, applies every action in a single transaction: cancellations,
// then completions, then reschedules. A failure at any point rolls the whole
// batch back. The processing lock serializes concurrent submissions; callers
// that lose the lock get a retryable error.
func (s *Service) ProcessBatch(ctx context.Context, batch Batch) (BatchResult, error) {
	if batch.Empty() {
		return BatchResult{}, apperr.BadRequest("batch contains no actions")
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return BatchResult{}, apperr.Busy("another batch is being processed, retry shortly")
		}
		return BatchResult{}, fmt.Errorf("acquire processing lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("lock_release_failed", "error", err.Error())
		}
	}()

	pending, err := s.PendingInstances(ctx, nil, s.validationHorizon(batch))
	if err != nil {
		return BatchResult{}, fmt.Errorf("load pending schedule: %w", err)
	}

	validation := ValidateBatch(batch, pending)
	if !validation.Valid {
		return BatchResult{
			Errors:   validation.Errors,
			Warnings: validation.Warnings,
		}, nil
	}

	// Fetch the affected services up front so denormalized ledger fields and
	// manifest routing come from one consistent read.
	services, err := s.loadBatchServices(ctx, batch)
	if err != nil {
		return BatchResult{}, err
	}

	today := recurrence.Today()
	err = s.repo.WithTx(ctx, func(tx repository.Store) error {
		for _, a := range batch.Cancellations {
			if err := applyCancellation(ctx, tx, services[a.ServiceID], a, today); err != nil {
				return err
			}
		}
		for _, a := range batch.Completions {
			if err := applyCompletion(ctx, tx, services[a.ServiceID], a, today); err != nil {
				return err
			}
		}
		for _, a := range batch.Reschedules {
			if err := applyReschedule(ctx, tx, services[a.ServiceID], a, today); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.DatabaseError("process_batch", err)
		return BatchResult{}, apperr.Wrap(apperr.KindInternal, "batch could not be applied, no actions were recorded", err)
	}

	result := BatchResult{
		Success:     true,
		Completed:   len(batch.Completions),
		Cancelled:   len(batch.Cancellations),
		Rescheduled: len(batch.Reschedules),
		Warnings:    validation.Warnings,
	}
	if s.bus != nil {
		var by string
		for _, a := range batch.Completions {
			if a.PerformedBy != "" {
				by = a.PerformedBy
				break
			}
		}
		s.bus.Publish(ctx, domainevents.BatchApplied{
			BaseEvent:   events.NewBaseEvent(),
			Completed:   result.Completed,
			Cancelled:   result.Cancelled,
			Rescheduled: result.Rescheduled,
			PerformedBy: by,
		})
	}
	return result, nil
}

// validationHorizon extends the projection window far enough to cover every
// date the batch touches, so ordering is checked against the full picture.
func (s *Service) validationHorizon(batch Batch) time.Time {
	end := recurrence.Today().AddDate(0, 0, s.horizonDays)
	for _, group := range [][]Action{batch.Completions, batch.Cancellations, batch.Reschedules} {
		for _, a := range group {
			for _, d := range []time.Time{a.ScheduledDate, a.NewDate} {
				if d.IsZero() {
					continue
				}
				if n := recurrence.Normalize(d); n.After(end) {
					end = n
				}
			}
		}
	}
	return end
}

func (s *Service) loadBatchServices(ctx context.Context, batch Batch) (map[uuid.UUID]repository.RecurringService, error) {
	services := make(map[uuid.UUID]repository.RecurringService)
	for _, group := range [][]Action{batch.Cancellations, batch.Completions, batch.Reschedules} {
		for _, a := range group {
			if _, ok := services[a.ServiceID]; ok {
				continue
			}
			svc, err := s.repo.GetService(ctx, a.ServiceID)
			if err != nil {
				return nil, err
			}
			services[a.ServiceID] = svc
		}
	}
	return services, nil
}

func applyCancellation(ctx context.Context, tx repository.Store, svc repository.RecurringService, a Action, today time.Time) error {
	scheduled := recurrence.Normalize(a.ScheduledDate)
	if err := tx.InsertEvent(ctx, repository.ServiceEvent{
		RecurringServiceID: svc.ID,
		JobSiteID:          svc.JobSiteID,
		JobSiteName:        svc.JobSiteName,
		ServiceType:        svc.ServiceType,
		ScheduledDate:      scheduled,
		EventType:          repository.EventCancelled,
		EventDate:          today,
		PerformedBy:        performer(a),
		Notes:              a.Notes,
	}); err != nil {
		return err
	}
	// A cancelled occurrence still anchors the next projection so the cycle
	// does not drift backwards.
	return tx.SetLastServiceDateMax(ctx, svc.ID, scheduled)
}

func applyCompletion(ctx context.Context, tx repository.Store, svc repository.RecurringService, a Action, today time.Time) error {
	scheduled := recurrence.Normalize(a.ScheduledDate)
	completed := scheduled
	if !a.CompletionDate.IsZero() {
		completed = recurrence.Normalize(a.CompletionDate)
	}
	if err := tx.InsertEvent(ctx, repository.ServiceEvent{
		RecurringServiceID: svc.ID,
		JobSiteID:          svc.JobSiteID,
		JobSiteName:        svc.JobSiteName,
		ServiceType:        svc.ServiceType,
		ScheduledDate:      scheduled,
		EventType:          repository.EventCompleted,
		EventDate:          today,
		CompletedDate:      &completed,
		PerformedBy:        performer(a),
		Notes:              a.Notes,
	}); err != nil {
		return err
	}
	if err := tx.SetLastServiceDateMax(ctx, svc.ID, completed); err != nil {
		return err
	}
	if svc.ManifestCounty == "" {
		return nil
	}
	return tx.InsertManifestEntry(ctx, repository.ManifestEntry{
		RecurringServiceID: svc.ID,
		JobSiteID:          svc.JobSiteID,
		JobSiteName:        svc.JobSiteName,
		Address:            svc.Address,
		ServiceType:        svc.ServiceType,
		DateCompleted:      completed,
		Quarter:            recurrence.Quarter(completed),
		County:             svc.ManifestCounty,
	})
}

func applyReschedule(ctx context.Context, tx repository.Store, svc repository.RecurringService, a Action, today time.Time) error {
	scheduled := recurrence.Normalize(a.ScheduledDate)
	newDate := recurrence.Normalize(a.NewDate)
	if err := tx.InsertEvent(ctx, repository.ServiceEvent{
		RecurringServiceID: svc.ID,
		JobSiteID:          svc.JobSiteID,
		JobSiteName:        svc.JobSiteName,
		ServiceType:        svc.ServiceType,
		ScheduledDate:      scheduled,
		EventType:          repository.EventRescheduled,
		EventDate:          today,
		RescheduledTo:      &newDate,
		PerformedBy:        performer(a),
		Notes:              a.Notes,
	}); err != nil {
		return err
	}
	if a.SkipAnchorShift {
		return nil
	}
	// Shift the projection anchor by the same delta so the following
	// occurrences keep their spacing relative to the moved date.
	return tx.ShiftLastServiceDate(ctx, svc.ID, recurrence.DaysBetween(scheduled, newDate))
}

func performer(a Action) string {
	if a.PerformedBy != "" {
		return a.PerformedBy
	}
	return "Service Manager"
}
