package transport

import "github.com/google/uuid"

// PendingInstanceResponse is one projected occurrence awaiting action.
type PendingInstanceResponse struct {
	ServiceID      uuid.UUID `json:"serviceId"`
	JobSiteID      uuid.UUID `json:"jobSiteId"`
	JobSiteName    string    `json:"jobSiteName"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	County         string    `json:"county"`
	ServiceType    string    `json:"serviceType"`
	Frequency      string    `json:"frequency"`
	ScheduledDate  string    `json:"scheduledDate"`
	OriginalDate   string    `json:"originalDate"`
	IsManual       bool      `json:"isManual"`
	DaysOverdue    int       `json:"daysOverdue"`
	Priority       int       `json:"priority"`
	TimeConstraint string    `json:"timeConstraint,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	ManifestCounty string    `json:"manifestCounty,omitempty"`
}

// ScheduleResponse is the full pending-schedule view.
type ScheduleResponse struct {
	Instances []PendingInstanceResponse `json:"instances"`
	Count     int                       `json:"count"`
}

// CompletionRequest marks one occurrence as done.
type CompletionRequest struct {
	ServiceID      uuid.UUID `json:"serviceId" binding:"required"`
	ScheduledDate  string    `json:"scheduledDate" binding:"required"`
	CompletionDate string    `json:"completionDate"`
	Notes          string    `json:"notes"`
}

// CancellationRequest skips one occurrence without performing it.
type CancellationRequest struct {
	ServiceID     uuid.UUID `json:"serviceId" binding:"required"`
	ScheduledDate string    `json:"scheduledDate" binding:"required"`
	Notes         string    `json:"notes"`
}

// RescheduleRequest moves one occurrence to a new date.
type RescheduleRequest struct {
	ServiceID     uuid.UUID `json:"serviceId" binding:"required"`
	ScheduledDate string    `json:"scheduledDate" binding:"required"`
	NewDate       string    `json:"newDate" binding:"required"`
	Notes         string    `json:"notes"`
}

// ActionBatchRequest carries every action of one submission. The batch is
// applied atomically: all actions land or none do.
type ActionBatchRequest struct {
	Completions   []CompletionRequest   `json:"completions"`
	Cancellations []CancellationRequest `json:"cancellations"`
	Reschedules   []RescheduleRequest   `json:"reschedules"`
}

// ValidationErrorResponse names one actionable problem with a batch.
type ValidationErrorResponse struct {
	ServiceID       uuid.UUID `json:"serviceId,omitempty"`
	JobSiteName     string    `json:"jobSiteName,omitempty"`
	Message         string    `json:"message"`
	UnresolvedDates []string  `json:"unresolvedDates,omitempty"`
}

// BatchResponse reports the outcome of a batch submission.
type BatchResponse struct {
	Success     bool                      `json:"success"`
	Completed   int                       `json:"completed"`
	Cancelled   int                       `json:"cancelled"`
	Rescheduled int                       `json:"rescheduled"`
	Errors      []ValidationErrorResponse `json:"errors,omitempty"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

// SmartRescheduleRequest resolves ordering conflicts for the named services
// by deriving a batch according to the chosen strategy.
type SmartRescheduleRequest struct {
	ServiceIDs   []uuid.UUID `json:"serviceIds" binding:"required,min=1"`
	Strategy     string      `json:"strategy" binding:"required,oneof=cascade compact reset"`
	OriginalDate string      `json:"originalDate" binding:"required"`
	NewDate      string      `json:"newDate" binding:"required"`
}

// FrequencyResponse is one recognized recurrence frequency.
type FrequencyResponse struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}
