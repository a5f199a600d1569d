package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldservice_backend/internal/manifests/repository"
	"fieldservice_backend/internal/manifests/service"
	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/platform/httpkit"
)

type Handler struct {
	repo repository.Store
}

func New(repo repository.Store) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/manifests", h.list)
	r.GET("/manifests/quarters", h.quarters)
	r.GET("/manifests/export", h.export)
}

type entryResponse struct {
	ID            uuid.UUID `json:"id"`
	JobSiteName   string    `json:"jobSiteName"`
	Address       string    `json:"address"`
	ServiceType   string    `json:"serviceType"`
	DateCompleted string    `json:"dateCompleted"`
	Quarter       string    `json:"quarter"`
	County        string    `json:"county"`
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.repo.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:            e.ID,
			JobSiteName:   e.JobSiteName,
			Address:       e.Address,
			ServiceType:   e.ServiceType,
			DateCompleted: recurrence.FormatDate(e.DateCompleted),
			Quarter:       e.Quarter,
			County:        e.County,
		})
	}
	httpkit.OK(c, gin.H{"entries": out, "count": len(out)})
}

func (h *Handler) quarters(c *gin.Context) {
	quarters, err := h.repo.Quarters(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"quarters": quarters})
}

func (h *Handler) export(c *gin.Context) {
	f := filterFromQuery(c)
	entries, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	data, err := service.ExportCSV(entries)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	name := "manifest"
	if f.Quarter != "" {
		name += "-" + strings.ReplaceAll(f.Quarter, " ", "-")
	}
	if f.County != "" {
		name += "-" + f.County
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	c.Data(http.StatusOK, "text/csv", data)
}

func filterFromQuery(c *gin.Context) repository.Filter {
	return repository.Filter{
		Quarter: c.Query("quarter"),
		County:  c.Query("county"),
	}
}
