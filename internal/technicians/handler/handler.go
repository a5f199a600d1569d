package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldservice_backend/internal/technicians/repository"
	"fieldservice_backend/internal/technicians/service"
	"fieldservice_backend/internal/technicians/transport"
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
	r.GET("/technicians", h.list)
	r.GET("/technicians/:id", h.get)
	r.POST("/technicians", h.create)
	r.PUT("/technicians/:id", h.update)
	r.DELETE("/technicians/:id", h.deactivate)
}

func (h *Handler) list(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	techs, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	out := make([]transport.TechnicianResponse, 0, len(techs))
	for _, tech := range techs {
		out = append(out, toResponse(tech))
	}
	httpkit.OK(c, gin.H{"technicians": out, "count": len(out)})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tech, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, toResponse(tech))
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}
	tech, err := h.svc.Create(c.Request.Context(), repository.Technician{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, toResponse(tech))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	tech, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	applyUpdate(&tech, req)

	updated, err := h.svc.Update(c.Request.Context(), tech)
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
		httpkit.HandleError(c, apperr.BadRequest("invalid technician id"))
		return uuid.Nil, false
	}
	return id, true
}

func applyUpdate(tech *repository.Technician, req transport.UpdateTechnicianRequest) {
	if req.Name != nil {
		tech.Name = *req.Name
	}
	if req.Phone != nil {
		tech.Phone = *req.Phone
	}
	if req.Email != nil {
		tech.Email = *req.Email
	}
	if req.IsActive != nil {
		tech.IsActive = *req.IsActive
	}
}

func toResponse(tech repository.Technician) transport.TechnicianResponse {
	return transport.TechnicianResponse{
		ID:       tech.ID,
		Name:     tech.Name,
		Phone:    tech.Phone,
		Email:    tech.Email,
		IsActive: tech.IsActive,
	}
}
