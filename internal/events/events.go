// Package events defines the domain events published by the modules.
package events

import (
	"github.com/google/uuid"

	"fieldservice_backend/platform/events"
)

// Event names.
const (
	BatchAppliedName       = "schedule.batch.applied"
	JobSiteDeactivatedName = "jobsite.deactivated"
)

// BatchApplied is published after an action batch commits.
type BatchApplied struct {
	events.BaseEvent
	Completed   int    `json:"completed"`
	Cancelled   int    `json:"cancelled"`
	Rescheduled int    `json:"rescheduled"`
	PerformedBy string `json:"performedBy"`
}

func (BatchApplied) EventName() string { return BatchAppliedName }

// JobSiteDeactivated is published when a job site is soft-deleted, so its
// recurring services can be deactivated with it.
type JobSiteDeactivated struct {
	events.BaseEvent
	JobSiteID uuid.UUID `json:"jobSiteId"`
}

func (JobSiteDeactivated) EventName() string { return JobSiteDeactivatedName }
