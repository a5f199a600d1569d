package transport

import "github.com/google/uuid"

type CreateJobSiteRequest struct {
	Name          string   `json:"name" binding:"required"`
	StreetNumber  string   `json:"streetNumber"`
	StreetAddress string   `json:"streetAddress"`
	City          string   `json:"city"`
	ZipCode       string   `json:"zipCode"`
	County        string   `json:"county"`
	ContactName   string   `json:"contactName"`
	ContactPhone  string   `json:"contactPhone"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

type UpdateJobSiteRequest struct {
	Name          *string  `json:"name"`
	StreetNumber  *string  `json:"streetNumber"`
	StreetAddress *string  `json:"streetAddress"`
	City          *string  `json:"city"`
	ZipCode       *string  `json:"zipCode"`
	County        *string  `json:"county"`
	ContactName   *string  `json:"contactName"`
	ContactPhone  *string  `json:"contactPhone"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

type JobSiteResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	StreetNumber  string    `json:"streetNumber"`
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	ZipCode       string    `json:"zipCode"`
	County        string    `json:"county"`
	ContactName   string    `json:"contactName"`
	ContactPhone  string    `json:"contactPhone"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	IsActive      bool      `json:"isActive"`
}
