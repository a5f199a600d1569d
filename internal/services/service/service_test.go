package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	domainevents "fieldservice_backend/internal/events"
	"fieldservice_backend/internal/services/repository"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/logger"
)

type fakeStore struct {
	services    map[uuid.UUID]repository.Service
	deactivated map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		services:    make(map[uuid.UUID]repository.Service),
		deactivated: make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) List(ctx context.Context, jobSiteID uuid.UUID, includeInactive bool) ([]repository.Service, error) {
	var out []repository.Service
	for _, svc := range f.services {
		if jobSiteID != uuid.Nil && svc.JobSiteID != jobSiteID {
			continue
		}
		if !includeInactive && !svc.IsActive {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id uuid.UUID) (repository.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return repository.Service{}, apperr.NotFound("recurring service not found")
	}
	return svc, nil
}

func (f *fakeStore) Create(ctx context.Context, svc repository.Service) (repository.Service, error) {
	svc.ID = uuid.New()
	svc.IsActive = true
	f.services[svc.ID] = svc
	return svc, nil
}

func (f *fakeStore) Update(ctx context.Context, svc repository.Service) (repository.Service, error) {
	if _, ok := f.services[svc.ID]; !ok {
		return repository.Service{}, apperr.NotFound("recurring service not found")
	}
	f.services[svc.ID] = svc
	return svc, nil
}

func (f *fakeStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	svc, ok := f.services[id]
	if !ok {
		return apperr.NotFound("recurring service not found")
	}
	svc.IsActive = false
	f.services[id] = svc
	return nil
}

func (f *fakeStore) DeactivateByJobSite(ctx context.Context, jobSiteID uuid.UUID) (int, error) {
	n := 0
	for id, svc := range f.services {
		if svc.JobSiteID == jobSiteID && svc.IsActive {
			svc.IsActive = false
			f.services[id] = svc
			f.deactivated[id] = true
			n++
		}
	}
	return n, nil
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestCreateRejectsUnknownFrequency(t *testing.T) {
	svc := New(newFakeStore(), testLogger())
	_, err := svc.Create(context.Background(), repository.Service{
		JobSiteID:   uuid.New(),
		ServiceType: "Grease Trap",
		Frequency:   "biweekly-ish",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsUnknownDayConstraint(t *testing.T) {
	svc := New(newFakeStore(), testLogger())
	_, err := svc.Create(context.Background(), repository.Service{
		JobSiteID:     uuid.New(),
		ServiceType:   "Grease Trap",
		Frequency:     "weekly",
		DayConstraint: "Someday",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAcceptsValidDefinition(t *testing.T) {
	svc := New(newFakeStore(), testLogger())
	created, err := svc.Create(context.Background(), repository.Service{
		JobSiteID:     uuid.New(),
		ServiceType:   "Grease Trap",
		Frequency:     "every-2-weeks",
		DayConstraint: "Tuesday",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil || !created.IsActive {
		t.Fatalf("created service malformed: %+v", created)
	}
}

func TestJobSiteDeactivationFansOut(t *testing.T) {
	store := newFakeStore()
	siteID := uuid.New()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		store.services[id] = repository.Service{
			ID: id, JobSiteID: siteID, Frequency: "weekly", IsActive: true,
		}
	}
	otherID := uuid.New()
	store.services[otherID] = repository.Service{
		ID: otherID, JobSiteID: uuid.New(), Frequency: "weekly", IsActive: true,
	}

	svc := New(store, testLogger())
	bus := events.NewInMemoryBus(nil)
	svc.SubscribeDeactivations(bus)

	err := bus.PublishSync(context.Background(), domainevents.JobSiteDeactivated{
		BaseEvent: events.NewBaseEvent(),
		JobSiteID: siteID,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(store.deactivated) != 3 {
		t.Fatalf("expected 3 services deactivated with the site, got %d", len(store.deactivated))
	}
	if !store.services[otherID].IsActive {
		t.Fatal("services at other sites must stay active")
	}
}
