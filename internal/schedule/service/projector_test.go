package service

import (
	"context"
	"testing"
	"time"

	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/internal/schedule/repository"
)

func weeklyService(name string, lastDaysAgo int) repository.RecurringService {
	last := recurrence.Today().AddDate(0, 0, -lastDaysAgo)
	return repository.RecurringService{
		JobSiteName:     name,
		Address:         "12 Mill Rd",
		ServiceType:     "Grease Trap",
		Frequency:       "weekly",
		LastServiceDate: datePtr(last),
	}
}

func TestPendingInstancesProjectsOverdueWithoutLowerBound(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 60))
	svc := newTestService(store)

	instances, err := svc.PendingInstances(context.Background(), nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	if len(instances) < 8 {
		t.Fatalf("expected at least 8 pending instances for a 60-day-old weekly service, got %d", len(instances))
	}
	today := recurrence.Today()
	overdue := 0
	for _, inst := range instances {
		if inst.Date.Before(today) {
			overdue++
			if inst.DaysOverdue <= 0 {
				t.Errorf("instance on %s should report positive days overdue", recurrence.FormatDate(inst.Date))
			}
		}
	}
	if overdue == 0 {
		t.Fatal("expected overdue instances to surface with no window start")
	}
}

func TestPendingInstancesExcludesResolvedOccurrences(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	before, err := svc.PendingInstances(ctx, nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	if len(before) == 0 {
		t.Fatal("expected pending instances")
	}

	first := before[0]
	store.events = append(store.events, repository.ServiceEvent{
		RecurringServiceID: first.ServiceID,
		ScheduledDate:      first.Date,
		EventType:          repository.EventCompleted,
	})

	after, err := svc.PendingInstances(ctx, nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	if len(after) != len(before)-1 {
		t.Fatalf("expected %d instances after completing one, got %d", len(before)-1, len(after))
	}
	for _, inst := range after {
		if inst.Date.Equal(first.Date) {
			t.Fatalf("completed occurrence %s still pending", recurrence.FormatDate(first.Date))
		}
	}
}

func TestPendingInstancesSubstitutesReschedule(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)
	ctx := context.Background()

	before, err := svc.PendingInstances(ctx, nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	first := before[0]
	moved := first.Date.AddDate(0, 0, 3)
	store.events = append(store.events, repository.ServiceEvent{
		RecurringServiceID: first.ServiceID,
		ScheduledDate:      first.Date,
		EventType:          repository.EventRescheduled,
		RescheduledTo:      &moved,
	})

	after, err := svc.PendingInstances(ctx, nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	var found *Instance
	for i := range after {
		if after[i].OriginalDate.Equal(first.Date) {
			found = &after[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("rescheduled occurrence of %s not found", recurrence.FormatDate(first.Date))
	}
	if !found.Date.Equal(moved) {
		t.Fatalf("expected effective date %s, got %s",
			recurrence.FormatDate(moved), recurrence.FormatDate(found.Date))
	}
	if !found.IsManual {
		t.Fatal("rescheduled instance should be flagged manual")
	}
}

func TestPendingInstancesSortedByDateThenPriority(t *testing.T) {
	store := newFakeStore()
	low := weeklyService("Low Priority", 30)
	low.Priority = 1
	high := weeklyService("High Priority", 30)
	high.Priority = 5
	store.addService(low)
	store.addService(high)
	svc := newTestService(store)

	instances, err := svc.PendingInstances(context.Background(), nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	for i := 1; i < len(instances); i++ {
		prev, cur := instances[i-1], instances[i]
		if cur.Date.Before(prev.Date) {
			t.Fatalf("instances out of date order at %d", i)
		}
		if cur.Date.Equal(prev.Date) && cur.Priority > prev.Priority {
			t.Fatalf("same-day instances out of priority order at %d", i)
		}
	}
}

func TestPendingInstancesSkipsServiceWithoutLastDate(t *testing.T) {
	store := newFakeStore()
	store.addService(repository.RecurringService{
		JobSiteName: "New Customer",
		ServiceType: "Septic",
		Frequency:   "weekly",
	})
	svc := newTestService(store)

	instances, err := svc.PendingInstances(context.Background(), nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("service without a last service date should project nothing, got %d", len(instances))
	}
}

func TestPendingInstancesSkipsUnknownFrequency(t *testing.T) {
	store := newFakeStore()
	bad := weeklyService("Typo Site", 30)
	bad.Frequency = "fortnightlyish"
	store.addService(bad)
	svc := newTestService(store)

	instances, err := svc.PendingInstances(context.Background(), nil, time.Time{})
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("unknown frequency should project nothing, got %d", len(instances))
	}
}

func TestPendingInstancesRespectsWindow(t *testing.T) {
	store := newFakeStore()
	store.addService(weeklyService("Harbor Diner", 30))
	svc := newTestService(store)

	start := recurrence.Today()
	end := start.AddDate(0, 0, 14)
	instances, err := svc.PendingInstances(context.Background(), &start, end)
	if err != nil {
		t.Fatalf("PendingInstances: %v", err)
	}
	for _, inst := range instances {
		if inst.Date.Before(start) || inst.Date.After(end) {
			t.Fatalf("instance %s outside window [%s, %s]",
				recurrence.FormatDate(inst.Date), recurrence.FormatDate(start), recurrence.FormatDate(end))
		}
	}
}
