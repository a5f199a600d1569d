package transport

import "github.com/google/uuid"

type CreateServiceRequest struct {
	JobSiteID       uuid.UUID `json:"jobSiteId" binding:"required"`
	ServiceType     string    `json:"serviceType" binding:"required"`
	Frequency       string    `json:"frequency" binding:"required"`
	LastServiceDate string    `json:"lastServiceDate"`
	DayConstraint   string    `json:"dayConstraint" binding:"omitempty,weekday"`
	TimeConstraint  string    `json:"timeConstraint"`
	Priority        int       `json:"priority"`
	Notes           string    `json:"notes"`
	OfficeNotes     string    `json:"officeNotes"`
	ManifestCounty  string    `json:"manifestCounty"`
}

type UpdateServiceRequest struct {
	ServiceType     *string `json:"serviceType"`
	Frequency       *string `json:"frequency"`
	LastServiceDate *string `json:"lastServiceDate"`
	DayConstraint   *string `json:"dayConstraint" binding:"omitempty,weekday"`
	TimeConstraint  *string `json:"timeConstraint"`
	Priority        *int    `json:"priority"`
	Notes           *string `json:"notes"`
	OfficeNotes     *string `json:"officeNotes"`
	ManifestCounty  *string `json:"manifestCounty"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	JobSiteID       uuid.UUID `json:"jobSiteId"`
	JobSiteName     string    `json:"jobSiteName"`
	ServiceType     string    `json:"serviceType"`
	Frequency       string    `json:"frequency"`
	LastServiceDate string    `json:"lastServiceDate,omitempty"`
	NextOccurrence  string    `json:"nextOccurrence,omitempty"`
	DayConstraint   string    `json:"dayConstraint,omitempty"`
	TimeConstraint  string    `json:"timeConstraint,omitempty"`
	Priority        int       `json:"priority"`
	Notes           string    `json:"notes,omitempty"`
	OfficeNotes     string    `json:"officeNotes,omitempty"`
	ManifestCounty  string    `json:"manifestCounty,omitempty"`
	IsActive        bool      `json:"isActive"`
}
