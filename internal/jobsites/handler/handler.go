package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldservice_backend/internal/jobsites/repository"
	"fieldservice_backend/internal/jobsites/service"
	"fieldservice_backend/internal/jobsites/transport"
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
	r.GET("/job-sites", h.list)
	r.GET("/job-sites/:id", h.get)
	r.POST("/job-sites", h.create)
	r.PUT("/job-sites/:id", h.update)
	r.DELETE("/job-sites/:id", h.deactivate)
}

func (h *Handler) list(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	sites, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	out := make([]transport.JobSiteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, toResponse(s))
	}
	httpkit.OK(c, gin.H{"jobSites": out, "count": len(out)})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	site, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, toResponse(site))
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateJobSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}
	site, err := h.svc.Create(c.Request.Context(), repository.JobSite{
		Name:          req.Name,
		StreetNumber:  req.StreetNumber,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		ZipCode:       req.ZipCode,
		County:        req.County,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, toResponse(site))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateJobSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	site, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	applyUpdate(&site, req)

	updated, err := h.svc.Update(c.Request.Context(), site)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, toResponse(updated))
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
		httpkit.HandleError(c, apperr.BadRequest("invalid job site id"))
		return uuid.Nil, false
	}
	return id, true
}

func applyUpdate(site *repository.JobSite, req transport.UpdateJobSiteRequest) {
	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.StreetNumber != nil {
		site.StreetNumber = *req.StreetNumber
	}
	if req.StreetAddress != nil {
		site.StreetAddress = *req.StreetAddress
	}
	if req.City != nil {
		site.City = *req.City
	}
	if req.ZipCode != nil {
		site.ZipCode = *req.ZipCode
	}
	if req.County != nil {
		site.County = *req.County
	}
	if req.ContactName != nil {
		site.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		site.ContactPhone = *req.ContactPhone
	}
	if req.Latitude != nil {
		site.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		site.Longitude = req.Longitude
	}
}

func toResponse(site repository.JobSite) transport.JobSiteResponse {
	return transport.JobSiteResponse{
		ID:            site.ID,
		Name:          site.Name,
		StreetNumber:  site.StreetNumber,
		StreetAddress: site.StreetAddress,
		City:          site.City,
		ZipCode:       site.ZipCode,
		County:        site.County,
		ContactName:   site.ContactName,
		ContactPhone:  site.ContactPhone,
		Latitude:      site.Latitude,
		Longitude:     site.Longitude,
		IsActive:      site.IsActive,
	}
}
