package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/internal/services/repository"
	"fieldservice_backend/internal/services/service"
	"fieldservice_backend/internal/services/transport"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.list)
	r.GET("/services/:id", h.get)
	r.POST("/services", h.create)
	r.PUT("/services/:id", h.update)
	r.DELETE("/services/:id", h.deactivate)
}

func (h *Handler) list(c *gin.Context) {
	var jobSiteID uuid.UUID
	if raw := c.Query("jobSiteId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.HandleError(c, apperr.BadRequest("invalid jobSiteId"))
			return
		}
		jobSiteID = parsed
	}
	includeInactive := c.Query("includeInactive") == "true"

	services, err := h.svc.List(c.Request.Context(), jobSiteID, includeInactive)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	out := make([]transport.ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, h.toResponse(svc))
	}
	httpkit.OK(c, gin.H{"services": out, "count": len(out)})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, h.toResponse(svc))
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}
	var lastDate *time.Time
	if req.LastServiceDate != "" {
		parsed, ok := recurrence.ParseDate(req.LastServiceDate)
		if !ok {
			httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid last service date %q", req.LastServiceDate)))
			return
		}
		lastDate = &parsed
	}

	svc, err := h.svc.Create(c.Request.Context(), repository.Service{
		JobSiteID:       req.JobSiteID,
		ServiceType:     req.ServiceType,
		Frequency:       req.Frequency,
		LastServiceDate: lastDate,
		DayConstraint:   req.DayConstraint,
		TimeConstraint:  req.TimeConstraint,
		Priority:        req.Priority,
		Notes:           req.Notes,
		OfficeNotes:     req.OfficeNotes,
		ManifestCounty:  req.ManifestCounty,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, h.toResponse(svc))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	svc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if ok := applyUpdate(c, &svc, req); !ok {
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), svc)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, h.toResponse(updated))
}

func (h *Handler) deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"deactivated": true})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid service id"))
		return uuid.Nil, false
	}
	return id, true
}

func applyUpdate(c *gin.Context, svc *repository.Service, req transport.UpdateServiceRequest) bool {
	if req.ServiceType != nil {
		svc.ServiceType = *req.ServiceType
	}
	if req.Frequency != nil {
		svc.Frequency = *req.Frequency
	}
	if req.LastServiceDate != nil {
		if *req.LastServiceDate == "" {
			svc.LastServiceDate = nil
		} else {
			parsed, ok := recurrence.ParseDate(*req.LastServiceDate)
			if !ok {
				httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid last service date %q", *req.LastServiceDate)))
				return false
			}
			svc.LastServiceDate = &parsed
		}
	}
	if req.DayConstraint != nil {
		svc.DayConstraint = *req.DayConstraint
	}
	if req.TimeConstraint != nil {
		svc.TimeConstraint = *req.TimeConstraint
	}
	if req.Priority != nil {
		svc.Priority = *req.Priority
	}
	if req.Notes != nil {
		svc.Notes = *req.Notes
	}
	if req.OfficeNotes != nil {
		svc.OfficeNotes = *req.OfficeNotes
	}
	if req.ManifestCounty != nil {
		svc.ManifestCounty = *req.ManifestCounty
	}
	return true
}

func (h *Handler) toResponse(svc repository.Service) transport.ServiceResponse {
	resp := transport.ServiceResponse{
		ID:             svc.ID,
		JobSiteID:      svc.JobSiteID,
		JobSiteName:    svc.JobSiteName,
		ServiceType:    svc.ServiceType,
		Frequency:      svc.Frequency,
		DayConstraint:  svc.DayConstraint,
		TimeConstraint: svc.TimeConstraint,
		Priority:       svc.Priority,
		Notes:          svc.Notes,
		OfficeNotes:    svc.OfficeNotes,
		ManifestCounty: svc.ManifestCounty,
		IsActive:       svc.IsActive,
	}
	if svc.LastServiceDate != nil {
		resp.LastServiceDate = recurrence.FormatDate(*svc.LastServiceDate)
	}
	if next, ok := h.svc.NextOccurrence(svc); ok {
		resp.NextOccurrence = next
	}
	return resp
}
