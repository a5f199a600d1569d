package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/platform/apperr"
)

// Smart-reschedule strategies.
const (
	StrategyCascade = "cascade" // shift every pending occurrence by the same delta
	StrategyCompact = "compact" // move only the earliest pending occurrence
	StrategyReset   = "reset"   // auto-complete overdue occurrences, move the next one
)

// SmartRescheduleRequest describes a conflict to resolve: the occurrence on
// OriginalDate is moving to NewDate for every listed service.
type SmartRescheduleRequest struct {
	ServiceIDs   []uuid.UUID
	Strategy     string
	OriginalDate time.Time
	NewDate      time.Time
	PerformedBy  string
}

// SmartReschedule derives an action batch from the chosen strategy and runs
// it through ProcessBatch, so the derived actions get the same validation,
// locking and atomicity as a hand-built batch.
func (s *Service) SmartReschedule(ctx context.Context, req SmartRescheduleRequest) (BatchResult, error) {
	if len(req.ServiceIDs) == 0 {
		return BatchResult{}, apperr.BadRequest("at least one service is required")
	}
	if req.OriginalDate.IsZero() || req.NewDate.IsZero() {
		return BatchResult{}, apperr.BadRequest("original and new dates are required")
	}

	pending, err := s.PendingInstances(ctx, nil, s.smartHorizon(req))
	if err != nil {
		return BatchResult{}, fmt.Errorf("load pending schedule: %w", err)
	}
	byService := make(map[uuid.UUID][]Instance)
	for _, inst := range pending {
		byService[inst.ServiceID] = append(byService[inst.ServiceID], inst)
	}

	var batch Batch
	switch req.Strategy {
	case StrategyCascade:
		batch = s.cascadeBatch(req, byService)
	case StrategyCompact:
		batch = s.compactBatch(req, byService)
	case StrategyReset:
		batch = s.resetBatch(req, byService)
	default:
		return BatchResult{}, apperr.BadRequest(fmt.Sprintf("unknown strategy %q", req.Strategy))
	}
	if batch.Empty() {
		return BatchResult{}, apperr.Unprocessable("no pending occurrences to reschedule for the selected services")
	}

	return s.ProcessBatch(ctx, batch)
}

// cascadeBatch shifts every pending occurrence of each service by the delta
// between the original and new dates, preserving relative spacing. The
// occurrences all project from one shared anchor, so only the first derived
// reschedule per service moves it; the rest only record their event.
func (s *Service) cascadeBatch(req SmartRescheduleRequest, byService map[uuid.UUID][]Instance) Batch {
	delta := recurrence.DaysBetween(recurrence.Normalize(req.OriginalDate), recurrence.Normalize(req.NewDate))
	var batch Batch
	for _, id := range req.ServiceIDs {
		for i, inst := range byService[id] {
			batch.Reschedules = append(batch.Reschedules, Action{
				ServiceID:       id,
				ScheduledDate:   inst.Date,
				NewDate:         inst.Date.AddDate(0, 0, delta),
				Notes:           "Cascade reschedule",
				PerformedBy:     req.PerformedBy,
				SkipAnchorShift: i > 0,
			})
		}
	}
	return batch
}

// compactBatch collapses the conflict to a single move per service: only the
// earliest pending occurrence goes to the new date, the rest stay put.
func (s *Service) compactBatch(req SmartRescheduleRequest, byService map[uuid.UUID][]Instance) Batch {
	newDate := recurrence.Normalize(req.NewDate)
	var batch Batch
	for _, id := range req.ServiceIDs {
		instances := byService[id]
		if len(instances) == 0 {
			continue
		}
		batch.Reschedules = append(batch.Reschedules, Action{
			ServiceID:     id,
			ScheduledDate: instances[0].Date,
			NewDate:       newDate,
			Notes:         "Compact reschedule",
			PerformedBy:   req.PerformedBy,
		})
	}
	return batch
}

// resetBatch auto-completes every overdue occurrence and moves the next
// upcoming one to the new date, giving the service a clean slate. When every
// pending occurrence is overdue the latest one is rescheduled instead of
// completed, so the requested date is always applied.
func (s *Service) resetBatch(req SmartRescheduleRequest, byService map[uuid.UUID][]Instance) Batch {
	today := recurrence.Today()
	newDate := recurrence.Normalize(req.NewDate)
	var batch Batch
	for _, id := range req.ServiceIDs {
		instances := byService[id]
		if len(instances) == 0 {
			continue
		}

		// Instances arrive sorted by date, so the reschedule target is the
		// first upcoming one, or the last overdue one when nothing upcoming
		// is pending.
		target := len(instances) - 1
		for i, inst := range instances {
			if !inst.Date.Before(today) {
				target = i
				break
			}
		}

		for i, inst := range instances {
			switch {
			case i == target:
				batch.Reschedules = append(batch.Reschedules, Action{
					ServiceID:     id,
					ScheduledDate: inst.Date,
					NewDate:       newDate,
					Notes:         "Schedule reset",
					PerformedBy:   req.PerformedBy,
				})
			case inst.Date.Before(today):
				batch.Completions = append(batch.Completions, Action{
					ServiceID:      id,
					ScheduledDate:  inst.Date,
					CompletionDate: today,
					Notes:          "Auto-completed during schedule reset",
					PerformedBy:    "System",
				})
			}
		}
	}
	return batch
}

func (s *Service) smartHorizon(req SmartRescheduleRequest) time.Time {
	end := recurrence.Today().AddDate(0, 0, s.horizonDays)
	for _, d := range []time.Time{req.OriginalDate, req.NewDate} {
		if n := recurrence.Normalize(d); n.After(end) {
			end = n
		}
	}
	return end
}
