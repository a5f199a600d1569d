package transport

import "github.com/google/uuid"

// EventResponse is one ledger record.
type EventResponse struct {
	ID            uuid.UUID `json:"id"`
	ServiceID     uuid.UUID `json:"serviceId"`
	JobSiteID     uuid.UUID `json:"jobSiteId"`
	JobSiteName   string    `json:"jobSiteName"`
	ServiceType   string    `json:"serviceType"`
	ScheduledDate string    `json:"scheduledDate"`
	EventType     string    `json:"eventType"`
	EventDate     string    `json:"eventDate"`
	CompletedDate string    `json:"completedDate,omitempty"`
	RescheduledTo string    `json:"rescheduledTo,omitempty"`
	PerformedBy   string    `json:"performedBy"`
	Notes         string    `json:"notes,omitempty"`
}
