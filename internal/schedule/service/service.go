package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fieldservice_backend/internal/schedule/repository"
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/logger"
)

// Locker serializes batch mutation across processes. Acquire blocks for a
// bounded wait and returns a release func on success.
type Locker interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// Instance is one projected pending occurrence of a recurring service.
type Instance struct {
	ServiceID      uuid.UUID
	JobSiteID      uuid.UUID
	JobSiteName    string
	Address        string
	City           string
	County         string
	ServiceType    string
	Frequency      string
	Date           time.Time // effective date, after any reschedule
	OriginalDate   time.Time // projected date before any reschedule
	IsManual       bool      // true when Date came from a reschedule
	DaysOverdue    int
	Priority       int
	TimeConstraint string
	Notes          string
	ManifestCounty string
}

// Action is one operator action against a specific occurrence.
type Action struct {
	ServiceID      uuid.UUID
	ScheduledDate  time.Time
	CompletionDate time.Time // completions only; zero means ScheduledDate
	NewDate        time.Time // reschedules only
	Notes          string
	PerformedBy    string

	// SkipAnchorShift records the rescheduled event without moving the
	// service's projection anchor. A cascade sets it on every derived
	// reschedule after the first, so the anchor moves by the delta once
	// per service rather than once per occurrence.
	SkipAnchorShift bool
}

// Batch groups every action of one submission.
type Batch struct {
	Completions   []Action
	Cancellations []Action
	Reschedules   []Action
}

func (b Batch) Empty() bool {
	return len(b.Completions) == 0 && len(b.Cancellations) == 0 && len(b.Reschedules) == 0
}

// ValidationError names one problem that blocks a batch.
type ValidationError struct {
	ServiceID       uuid.UUID
	JobSiteName     string
	Message         string
	UnresolvedDates []string
}

// Validation is the outcome of checking a batch against the pending schedule.
type Validation struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []string
}

// BatchResult reports what a processed batch did.
type BatchResult struct {
	Success     bool
	Completed   int
	Cancelled   int
	Rescheduled int
	Errors      []ValidationError
	Warnings    []string
}

// Service is the scheduling engine: projection, validation, atomic batch
// apply, and conflict resolution.
type Service struct {
	repo        repository.Store
	locker      Locker
	bus         events.Bus
	log         *logger.Logger
	horizonDays int
}

func New(repo repository.Store, locker Locker, bus events.Bus, log *logger.Logger, horizonDays int) *Service {
	if horizonDays <= 0 {
		horizonDays = 45
	}
	return &Service{
		repo:        repo,
		locker:      locker,
		bus:         bus,
		log:         log,
		horizonDays: horizonDays,
	}
}

// HorizonDays is the default projection window length in days.
func (s *Service) HorizonDays() int { return s.horizonDays }
