package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fieldservice_backend/internal/schedule/repository"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/logger"
)

// fakeStore is an in-memory Store with copy-on-write transactions, so a
// failed WithTx leaves the base state untouched.
type fakeStore struct {
	services map[uuid.UUID]repository.RecurringService
	events   []repository.ServiceEvent
	manifest []repository.ManifestEntry

	failManifest  bool
	failEventType string
}

func newFakeStore() *fakeStore {
	return &fakeStore{services: make(map[uuid.UUID]repository.RecurringService)}
}

func (f *fakeStore) addService(svc repository.RecurringService) {
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	if svc.JobSiteID == uuid.Nil {
		svc.JobSiteID = uuid.New()
	}
	svc.IsActive = true
	f.services[svc.ID] = svc
}

func (f *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		services:      make(map[uuid.UUID]repository.RecurringService, len(f.services)),
		events:        append([]repository.ServiceEvent(nil), f.events...),
		manifest:      append([]repository.ManifestEntry(nil), f.manifest...),
		failManifest:  f.failManifest,
		failEventType: f.failEventType,
	}
	for id, svc := range f.services {
		c.services[id] = svc
	}
	return c
}

func (f *fakeStore) ListActiveServices(ctx context.Context) ([]repository.RecurringService, error) {
	var out []repository.RecurringService
	for _, svc := range f.services {
		if svc.IsActive {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeStore) GetService(ctx context.Context, id uuid.UUID) (repository.RecurringService, error) {
	svc, ok := f.services[id]
	if !ok {
		return repository.RecurringService{}, apperr.NotFound("recurring service not found")
	}
	return svc, nil
}

func (f *fakeStore) ListResolvedKeys(ctx context.Context) ([]repository.EventKey, error) {
	var keys []repository.EventKey
	for _, e := range f.events {
		if e.EventType == repository.EventCompleted || e.EventType == repository.EventCancelled {
			keys = append(keys, repository.EventKey{
				RecurringServiceID: e.RecurringServiceID,
				ScheduledDate:      e.ScheduledDate,
			})
		}
	}
	return keys, nil
}

func (f *fakeStore) ListReschedules(ctx context.Context) ([]repository.RescheduleEvent, error) {
	var out []repository.RescheduleEvent
	for _, e := range f.events {
		if e.EventType == repository.EventRescheduled && e.RescheduledTo != nil {
			out = append(out, repository.RescheduleEvent{
				RecurringServiceID: e.RecurringServiceID,
				ScheduledDate:      e.ScheduledDate,
				NewDate:            *e.RescheduledTo,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) InsertEvent(ctx context.Context, event repository.ServiceEvent) error {
	if f.failEventType != "" && event.EventType == f.failEventType {
		return errors.New("insert event failed")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStore) InsertManifestEntry(ctx context.Context, entry repository.ManifestEntry) error {
	if f.failManifest {
		return errors.New("insert manifest failed")
	}
	f.manifest = append(f.manifest, entry)
	return nil
}

func (f *fakeStore) SetLastServiceDateMax(ctx context.Context, id uuid.UUID, date time.Time) error {
	svc, ok := f.services[id]
	if !ok {
		return apperr.NotFound("recurring service not found")
	}
	if svc.LastServiceDate == nil || date.After(*svc.LastServiceDate) {
		d := date
		svc.LastServiceDate = &d
	}
	f.services[id] = svc
	return nil
}

func (f *fakeStore) ShiftLastServiceDate(ctx context.Context, id uuid.UUID, days int) error {
	svc, ok := f.services[id]
	if !ok {
		return apperr.NotFound("recurring service not found")
	}
	if svc.LastServiceDate != nil {
		d := svc.LastServiceDate.AddDate(0, 0, days)
		svc.LastServiceDate = &d
	}
	f.services[id] = svc
	return nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	clone := f.clone()
	if err := fn(clone); err != nil {
		return err
	}
	*f = *clone
	return nil
}

var _ repository.Store = (*fakeStore)(nil)

// fakeLocker hands out no-op leases, or fails with a fixed error.
type fakeLocker struct {
	err      error
	acquired int
}

func (f *fakeLocker) Acquire(ctx context.Context) (func(context.Context) error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.acquired++
	return func(context.Context) error { return nil }, nil
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newTestService(store *fakeStore) *Service {
	return New(store, &fakeLocker{}, nil, testLogger(), 45)
}

func datePtr(t time.Time) *time.Time { return &t }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
