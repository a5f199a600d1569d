package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/internal/schedule/repository"
)

type occurrenceKey struct {
	serviceID uuid.UUID
	date      time.Time
}

// PendingInstances projects every active recurring service forward and
// returns the occurrences that have no completed or cancelled event, with
// outstanding reschedules substituted in. A nil windowStart means no lower
// bound, so long-overdue instances surface no matter how old. A zero
// windowEnd means today plus the configured horizon.
func (s *Service) PendingInstances(ctx context.Context, windowStart *time.Time, windowEnd time.Time) ([]Instance, error) {
	today := recurrence.Today()
	if windowEnd.IsZero() {
		windowEnd = today.AddDate(0, 0, s.horizonDays)
	}
	windowEnd = recurrence.Normalize(windowEnd)

	services, err := s.repo.ListActiveServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	resolved, err := s.repo.ListResolvedKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resolved occurrences: %w", err)
	}
	reschedules, err := s.repo.ListReschedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reschedules: %w", err)
	}

	resolvedSet := make(map[occurrenceKey]struct{}, len(resolved))
	for _, key := range resolved {
		resolvedSet[occurrenceKey{key.RecurringServiceID, recurrence.Normalize(key.ScheduledDate)}] = struct{}{}
	}
	// Later reschedules of the same occurrence win: ListReschedules is
	// ordered by event date.
	moved := make(map[occurrenceKey]time.Time, len(reschedules))
	for _, re := range reschedules {
		moved[occurrenceKey{re.RecurringServiceID, recurrence.Normalize(re.ScheduledDate)}] = recurrence.Normalize(re.NewDate)
	}

	var instances []Instance
	for _, svc := range services {
		dates, err := s.projectService(svc, windowEnd)
		if err != nil {
			s.log.ProjectionSkipped(svc.ID.String(), err.Error())
			continue
		}
		for _, date := range dates {
			key := occurrenceKey{svc.ID, date}
			if _, done := resolvedSet[key]; done {
				continue
			}
			effective, manual := date, false
			// Follow reschedule chains: an occurrence may have been moved
			// more than once. The hop cap breaks accidental cycles.
			for hops := 0; hops < 32; hops++ {
				newDate, ok := moved[occurrenceKey{svc.ID, effective}]
				if !ok || newDate.Equal(effective) {
					break
				}
				effective, manual = newDate, true
			}
			if manual {
				// The moved occurrence may have been resolved under its
				// final date.
				if _, done := resolvedSet[occurrenceKey{svc.ID, effective}]; done {
					continue
				}
			}
			if windowStart != nil && effective.Before(recurrence.Normalize(*windowStart)) {
				continue
			}
			if effective.After(windowEnd) {
				continue
			}
			instances = append(instances, Instance{
				ServiceID:      svc.ID,
				JobSiteID:      svc.JobSiteID,
				JobSiteName:    svc.JobSiteName,
				Address:        svc.Address,
				City:           svc.City,
				County:         svc.County,
				ServiceType:    svc.ServiceType,
				Frequency:      svc.Frequency,
				Date:           effective,
				OriginalDate:   date,
				IsManual:       manual,
				DaysOverdue:    recurrence.DaysOverdue(effective, today),
				Priority:       svc.Priority,
				TimeConstraint: svc.TimeConstraint,
				Notes:          svc.Notes,
				ManifestCounty: svc.ManifestCounty,
			})
		}
	}

	sort.SliceStable(instances, func(i, j int) bool {
		if !instances[i].Date.Equal(instances[j].Date) {
			return instances[i].Date.Before(instances[j].Date)
		}
		return instances[i].Priority > instances[j].Priority
	})
	return instances, nil
}

// projectService generates the projected dates for one service up to
// windowEnd. Services without a last-service date or with an unrecognized
// frequency project nothing.
func (s *Service) projectService(svc repository.RecurringService, windowEnd time.Time) ([]time.Time, error) {
	if svc.LastServiceDate == nil {
		return nil, nil
	}
	return recurrence.ProjectSequence(*svc.LastServiceDate, svc.Frequency, svc.DayConstraint, windowEnd)
}
