package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/internal/schedule/repository"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/lock"
)

func mustPending(t *testing.T, svc *Service) []Instance {
	t.Helper()
	instances, err := svc.PendingInstances(context.Background(), nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	if len(instances) == 0 {
		t.Fatal("expected pending instances")
	}
	return instances
}

func TestProcessBatchEmptyIsRejected(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.ProcessBatch(context.Background(), Batch{})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for empty batch, got %v", err)
	}
}

func TestProcessBatchBusyWhenLockHeld(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := New(store, &fakeLocker{err: lock.ErrNotAcquired}, nil, testLogger(), 45)

	batch := Batch{Completions: []Action{{
		ServiceID:     firstServiceID(store),
		ScheduledDate: recurrence.Today(),
	}}}
	_, err := svc.ProcessBatch(context.Background(), batch)
	if !apperr.Is(err, apperr.KindBusy) {
		t.Fatalf("expected busy error when lock is held, got %v", err)
	}
}

func firstServiceID(store *fakeStore) uuid.UUID {
	for id := range store.services {
		return id
	}
	return uuid.Nil
}

func TestProcessBatchCompletionRecordsEventAndAdvancesAnchor(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	oldest := pending[0]

	result, err := svc.ProcessBatch(ctx, Batch{Completions: []Action{{
		ServiceID:     oldest.ServiceID,
		ScheduledDate: oldest.Date,
		Notes:         "pumped and inspected",
		PerformedBy:   "Dana",
	}}})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if !result.Success || result.Completed != 1 {
		t.Fatalf("expected 1 completion, got %+v", result)
	}

	if len(store.events) != 1 {
		t.Fatalf("expected 1 ledger event, got %d", len(store.events))
	}
	e := store.events[0]
	if e.EventType != repository.EventCompleted {
		t.Errorf("event type = %q", e.EventType)
	}
	if e.JobSiteName != "Harbor Diner" || e.ServiceType != "Grease Trap" {
		t.Errorf("denormalized fields not carried: %+v", e)
	}
	if e.PerformedBy != "Dana" {
		t.Errorf("performed by = %q", e.PerformedBy)
	}
	if e.CompletedDate == nil || !e.CompletedDate.Equal(oldest.Date) {
		t.Errorf("completion date should default to the scheduled date")
	}

	updated := store.services[oldest.ServiceID]
	if updated.LastServiceDate == nil || !updated.LastServiceDate.Equal(oldest.Date) {
		t.Errorf("last service date should advance to the completed date")
	}
}

func TestProcessBatchCompletionNeverRewindsAnchor(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	oldest := pending[0]
	anchor := *store.services[oldest.ServiceID].LastServiceDate

	// Backdated completion, earlier than the current anchor.
	_, err := svc.ProcessBatch(ctx, Batch{Completions: []Action{{
		ServiceID:      oldest.ServiceID,
		ScheduledDate:  oldest.Date,
		CompletionDate: anchor.AddDate(0, 0, -10),
	}}})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	updated := store.services[oldest.ServiceID]
	if updated.LastServiceDate.Before(anchor) {
		t.Fatalf("last service date moved backwards: %s < %s",
			recurrence.FormatDate(*updated.LastServiceDate), recurrence.FormatDate(anchor))
	}
}

func TestProcessBatchCancellationAnchorsProjection(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	oldest := pending[0]

	result, err := svc.ProcessBatch(ctx, Batch{Cancellations: []Action{{
		ServiceID:     oldest.ServiceID,
		ScheduledDate: oldest.Date,
		Notes:         "site closed for renovation",
	}}})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if result.Cancelled != 1 {
		t.Fatalf("expected 1 cancellation, got %+v", result)
	}
	if store.events[0].EventType != repository.EventCancelled {
		t.Errorf("event type = %q", store.events[0].EventType)
	}
	updated := store.services[oldest.ServiceID]
	if !updated.LastServiceDate.Equal(oldest.Date) {
		t.Errorf("cancellation should still advance the projection anchor")
	}
}

func TestProcessBatchRescheduleShiftsAnchorByDelta(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	oldest := pending[0]
	anchor := *store.services[oldest.ServiceID].LastServiceDate
	newDate := oldest.Date.AddDate(0, 0, 3)

	result, err := svc.ProcessBatch(ctx, Batch{Reschedules: []Action{{
		ServiceID:     oldest.ServiceID,
		ScheduledDate: oldest.Date,
		NewDate:       newDate,
	}}})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if result.Rescheduled != 1 {
		t.Fatalf("expected 1 reschedule, got %+v", result)
	}
	e := store.events[0]
	if e.EventType != repository.EventRescheduled || e.RescheduledTo == nil || !e.RescheduledTo.Equal(newDate) {
		t.Fatalf("reschedule event malformed: %+v", e)
	}
	updated := store.services[oldest.ServiceID]
	want := anchor.AddDate(0, 0, 3)
	if !updated.LastServiceDate.Equal(want) {
		t.Fatalf("anchor should shift by the reschedule delta: want %s, got %s",
			recurrence.FormatDate(want), recurrence.FormatDate(*updated.LastServiceDate))
	}
}

func TestProcessBatchRejectsOutOfOrderAndRecordsNothing(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	if len(pending) < 2 {
		t.Fatal("fixture needs at least two pending instances")
	}
	second := pending[1]

	result, err := svc.ProcessBatch(ctx, Batch{Completions: []Action{{
		ServiceID:     second.ServiceID,
		ScheduledDate: second.Date,
	}}})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if result.Success {
		t.Fatal("out-of-order batch must be rejected")
	}
	if len(result.Errors) == 0 {
		t.Fatal("rejection must carry structured errors")
	}
	if len(result.Errors[0].UnresolvedDates) == 0 {
		t.Fatal("error must name the unresolved older dates")
	}
	if len(store.events) != 0 {
		t.Fatalf("rejected batch must record nothing, found %d events", len(store.events))
	}
}

func TestProcessBatchRollsBackOnApplyFailure(t *testing.T) {
	store := newFakeStore()
	manifested := weeklyService("Greene Plant", 30)
	manifested.ManifestCounty = "Greene"
	store.addService(manifested)
	store.failManifest = true
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	oldest := pending[0]
	anchor := *store.services[oldest.ServiceID].LastServiceDate

	_, err := svc.ProcessBatch(ctx, Batch{Completions: []Action{{
		ServiceID:     oldest.ServiceID,
		ScheduledDate: oldest.Date,
	}}})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error on apply failure, got %v", err)
	}
	if len(store.events) != 0 {
		t.Fatalf("failed batch must leave the ledger untouched, found %d events", len(store.events))
	}
	if len(store.manifest) != 0 {
		t.Fatal("failed batch must leave the manifest untouched")
	}
	if !store.services[oldest.ServiceID].LastServiceDate.Equal(anchor) {
		t.Fatal("failed batch must not move the projection anchor")
	}
}

func TestProcessBatchCompletionWritesManifestEntry(t *testing.T) {
	store := newFakeStore()
	manifested := weeklyService("Greene Plant", 30)
	manifested.ManifestCounty = "Greene"
	store.addService(manifested)
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	oldest := pending[0]

	_, err := svc.ProcessBatch(ctx, Batch{Completions: []Action{{
		ServiceID:     oldest.ServiceID,
		ScheduledDate: oldest.Date,
	}}})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(store.manifest) != 1 {
		t.Fatalf("expected 1 manifest entry, got %d", len(store.manifest))
	}
	entry := store.manifest[0]
	if entry.County != "Greene" {
		t.Errorf("county = %q", entry.County)
	}
	if entry.Quarter != recurrence.Quarter(entry.DateCompleted) {
		t.Errorf("quarter %q does not match completion date %s",
			entry.Quarter, recurrence.FormatDate(entry.DateCompleted))
	}
	if entry.JobSiteName != "Greene Plant" || entry.Address == "" {
		t.Errorf("manifest entry missing site details: %+v", entry)
	}
}

func TestProcessBatchCompletionWithoutManifestCountySkipsManifest(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	oldest := pending[0]

	if _, err := svc.ProcessBatch(ctx, Batch{Completions: []Action{{
		ServiceID:     oldest.ServiceID,
		ScheduledDate: oldest.Date,
	}}}); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(store.manifest) != 0 {
		t.Fatalf("no manifest entry expected, got %d", len(store.manifest))
	}
}

func TestProcessBatchMixedActionsAllLand(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	pending := mustPending(t, svc)
	if len(pending) < 3 {
		t.Fatal("fixture needs at least three pending instances")
	}

	result, err := svc.ProcessBatch(ctx, Batch{
		Completions:   []Action{{ServiceID: pending[0].ServiceID, ScheduledDate: pending[0].Date}},
		Cancellations: []Action{{ServiceID: pending[1].ServiceID, ScheduledDate: pending[1].Date}},
		Reschedules: []Action{{
			ServiceID:     pending[2].ServiceID,
			ScheduledDate: pending[2].Date,
			NewDate:       pending[2].Date.AddDate(0, 0, 2),
		}},
	})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if !result.Success || result.Completed != 1 || result.Cancelled != 1 || result.Rescheduled != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(store.events) != 3 {
		t.Fatalf("expected 3 ledger events, got %d", len(store.events))
	}
	// Cancellations land before completions, completions before reschedules.
	order := []string{store.events[0].EventType, store.events[1].EventType, store.events[2].EventType}
	want := []string{repository.EventCancelled, repository.EventCompleted, repository.EventRescheduled}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("apply order = %v, want %v", order, want)
		}
	}
}
