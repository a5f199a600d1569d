package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecurringService is one recurring maintenance obligation at a job site,
// joined with the job-site fields the schedule surfaces.
type RecurringService struct {
	ID              uuid.UUID
	JobSiteID       uuid.UUID
	JobSiteName     string
	Address         string
	City            string
	County          string
	ServiceType     string
	Frequency       string
	LastServiceDate *time.Time
	DayConstraint   string
	TimeConstraint  string
	Priority        int
	Notes           string
	OfficeNotes     string
	ManifestCounty  string
	IsActive        bool
}

// ServiceEvent is one append-only ledger record. Job-site name and service
// type are denormalized at write time for audit durability.
type ServiceEvent struct {
	ID                 uuid.UUID
	RecurringServiceID uuid.UUID
	JobSiteID          uuid.UUID
	JobSiteName        string
	ServiceType        string
	ScheduledDate      time.Time
	EventType          string
	EventDate          time.Time
	CompletedDate      *time.Time
	RescheduledTo      *time.Time
	PerformedBy        string
	Notes              string
}

// ManifestEntry is one compliance record created on completion of a service
// with a manifest county.
type ManifestEntry struct {
	ID                 uuid.UUID
	RecurringServiceID uuid.UUID
	JobSiteID          uuid.UUID
	JobSiteName        string
	Address            string
	ServiceType        string
	DateCompleted      time.Time
	Quarter            string
	County             string
}

// EventKey identifies one resolved (completed or cancelled) occurrence.
type EventKey struct {
	RecurringServiceID uuid.UUID
	ScheduledDate      time.Time
}

// RescheduleEvent is an outstanding reschedule: the projected occurrence on
// ScheduledDate was moved to NewDate by an operator.
type RescheduleEvent struct {
	RecurringServiceID uuid.UUID
	ScheduledDate      time.Time
	NewDate            time.Time
}

// Event types recorded in the ledger.
const (
	EventCompleted   = "completed"
	EventCancelled   = "cancelled"
	EventRescheduled = "rescheduled"
	EventPrinted     = "printed"
)

// Store is the persisted-state surface the schedule engine requires: the
// recurring-service table (with last-service-date mutation), the append-only
// event ledger, and the append-only manifest ledger.
type Store interface {
	// ListActiveServices returns every active recurring service joined with
	// its job site.
	ListActiveServices(ctx context.Context) ([]RecurringService, error)

	// GetService returns one recurring service by ID, active or not.
	GetService(ctx context.Context, id uuid.UUID) (RecurringService, error)

	// ListResolvedKeys returns the (service, scheduled date) pairs that have
	// a completed or cancelled event on the ledger.
	ListResolvedKeys(ctx context.Context) ([]EventKey, error)

	// ListReschedules returns every rescheduled event on the ledger.
	ListReschedules(ctx context.Context) ([]RescheduleEvent, error)

	// InsertEvent appends one record to the event ledger.
	InsertEvent(ctx context.Context, event ServiceEvent) error

	// InsertManifestEntry appends one record to the manifest ledger.
	InsertManifestEntry(ctx context.Context, entry ManifestEntry) error

	// SetLastServiceDateMax sets the service's last-service date to the later
	// of its current value and the given date.
	SetLastServiceDateMax(ctx context.Context, id uuid.UUID, date time.Time) error

	// ShiftLastServiceDate moves the service's last-service date by a day
	// delta so future projections re-anchor. No-op when the date is null.
	ShiftLastServiceDate(ctx context.Context, id uuid.UUID, days int) error

	// WithTx runs fn against a transactional view of the store. Any error
	// rolls every mutation made inside fn back; nil commits.
	WithTx(ctx context.Context, fn func(Store) error) error
}
