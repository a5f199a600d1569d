package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"fieldservice_backend/internal/schedule/recurrence"
)

// ValidateBatch checks a batch against the pending schedule. Errors block the
// whole batch; warnings do not.
//
// The chronological-order rule: completions and cancellations may only land
// on a service once every older pending instance of that service is resolved,
// either by an earlier event or by another action in the same batch.
// Reschedules are held to the same rule relative to their from date.
func ValidateBatch(batch Batch, pending []Instance) Validation {
	v := Validation{Valid: true}

	targeted := make(map[occurrenceKey]struct{})
	for _, group := range [][]Action{batch.Completions, batch.Cancellations, batch.Reschedules} {
		for _, a := range group {
			targeted[occurrenceKey{a.ServiceID, recurrence.Normalize(a.ScheduledDate)}] = struct{}{}
		}
	}

	pendingByService := make(map[uuid.UUID][]Instance)
	siteNames := make(map[uuid.UUID]string)
	for _, inst := range pending {
		pendingByService[inst.ServiceID] = append(pendingByService[inst.ServiceID], inst)
		siteNames[inst.ServiceID] = inst.JobSiteName
	}

	// Conflicting actions on the same occurrence.
	seenCompletion := make(map[occurrenceKey]struct{}, len(batch.Completions))
	for _, a := range batch.Completions {
		seenCompletion[occurrenceKey{a.ServiceID, recurrence.Normalize(a.ScheduledDate)}] = struct{}{}
	}
	for _, a := range batch.Cancellations {
		key := occurrenceKey{a.ServiceID, recurrence.Normalize(a.ScheduledDate)}
		if _, dup := seenCompletion[key]; dup {
			v.addError(ValidationError{
				ServiceID:   a.ServiceID,
				JobSiteName: siteNames[a.ServiceID],
				Message: fmt.Sprintf("occurrence on %s is both completed and cancelled in this batch",
					recurrence.FormatDate(key.date)),
			})
		}
	}

	for _, a := range batch.Reschedules {
		if a.NewDate.IsZero() {
			v.addError(ValidationError{
				ServiceID:   a.ServiceID,
				JobSiteName: siteNames[a.ServiceID],
				Message:     "reschedule requires a new date",
			})
		}
	}

	// Chronological order for completions and cancellations, per service.
	earliest := make(map[uuid.UUID]time.Time)
	for _, group := range [][]Action{batch.Completions, batch.Cancellations} {
		for _, a := range group {
			date := recurrence.Normalize(a.ScheduledDate)
			if cur, ok := earliest[a.ServiceID]; !ok || date.Before(cur) {
				earliest[a.ServiceID] = date
			}
		}
	}
	serviceIDs := make([]uuid.UUID, 0, len(earliest))
	for id := range earliest {
		serviceIDs = append(serviceIDs, id)
	}
	sort.Slice(serviceIDs, func(i, j int) bool { return serviceIDs[i].String() < serviceIDs[j].String() })

	for _, id := range serviceIDs {
		unresolved := unresolvedBefore(pendingByService[id], earliest[id], targeted)
		if len(unresolved) == 0 {
			continue
		}
		v.addError(ValidationError{
			ServiceID:   id,
			JobSiteName: siteNames[id],
			Message: fmt.Sprintf("%s has %d older pending occurrence(s) that must be resolved first",
				siteNames[id], len(unresolved)),
			UnresolvedDates: unresolved,
		})
	}

	// Reschedules: same ordering rule against the from date, plus a warning
	// when the target date collides with another pending occurrence.
	for _, a := range batch.Reschedules {
		from := recurrence.Normalize(a.ScheduledDate)
		unresolved := unresolvedBefore(pendingByService[a.ServiceID], from, targeted)
		if len(unresolved) > 0 {
			v.addError(ValidationError{
				ServiceID:   a.ServiceID,
				JobSiteName: siteNames[a.ServiceID],
				Message: fmt.Sprintf("cannot reschedule %s occurrence: %d older pending occurrence(s) remain",
					recurrence.FormatDate(from), len(unresolved)),
				UnresolvedDates: unresolved,
			})
		}
		if a.NewDate.IsZero() {
			continue
		}
		newDate := recurrence.Normalize(a.NewDate)
		for _, inst := range pendingByService[a.ServiceID] {
			if inst.Date.Equal(newDate) && !inst.Date.Equal(from) {
				v.Warnings = append(v.Warnings, fmt.Sprintf(
					"%s already has a pending occurrence on %s",
					inst.JobSiteName, recurrence.FormatDate(newDate)))
			}
		}
	}

	return v
}

// unresolvedBefore returns the pending dates of one service strictly earlier
// than cutoff that no action in the batch targets.
func unresolvedBefore(pending []Instance, cutoff time.Time, targeted map[occurrenceKey]struct{}) []string {
	var dates []string
	for _, inst := range pending {
		if !inst.Date.Before(cutoff) {
			continue
		}
		if _, ok := targeted[occurrenceKey{inst.ServiceID, inst.Date}]; ok {
			continue
		}
		if _, ok := targeted[occurrenceKey{inst.ServiceID, inst.OriginalDate}]; ok {
			continue
		}
		dates = append(dates, recurrence.FormatDate(inst.Date))
	}
	sort.Strings(dates)
	return dates
}

func (v *Validation) addError(err ValidationError) {
	v.Valid = false
	v.Errors = append(v.Errors, err)
}
