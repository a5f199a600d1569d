package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldservice_backend/internal/history/repository"
	"fieldservice_backend/internal/history/transport"
	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/httpkit"
)

type Handler struct {
	repo repository.Store
}

func New(repo repository.Store) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/history", h.list)
}

func (h *Handler) list(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	events, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	out := make([]transport.EventResponse, 0, len(events))
	for _, e := range events {
		resp := transport.EventResponse{
			ID:            e.ID,
			ServiceID:     e.RecurringServiceID,
			JobSiteID:     e.JobSiteID,
			JobSiteName:   e.JobSiteName,
			ServiceType:   e.ServiceType,
			ScheduledDate: recurrence.FormatDate(e.ScheduledDate),
			EventType:     e.EventType,
			EventDate:     recurrence.FormatDate(e.EventDate),
			PerformedBy:   e.PerformedBy,
			Notes:         e.Notes,
		}
		if e.CompletedDate != nil {
			resp.CompletedDate = recurrence.FormatDate(*e.CompletedDate)
		}
		if e.RescheduledTo != nil {
			resp.RescheduledTo = recurrence.FormatDate(*e.RescheduledTo)
		}
		out = append(out, resp)
	}
	httpkit.OK(c, gin.H{"events": out, "count": len(out)})
}

func parseFilter(c *gin.Context) (repository.Filter, bool) {
	var f repository.Filter
	if raw := c.Query("serviceId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.HandleError(c, apperr.BadRequest("invalid serviceId"))
			return f, false
		}
		f.ServiceID = id
	}
	if raw := c.Query("jobSiteId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.HandleError(c, apperr.BadRequest("invalid jobSiteId"))
			return f, false
		}
		f.JobSiteID = id
	}
	f.EventType = c.Query("eventType")
	if raw := c.Query("from"); raw != "" {
		date, ok := recurrence.ParseDate(raw)
		if !ok {
			httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid from date %q", raw)))
			return f, false
		}
		f.From = date
	}
	if raw := c.Query("to"); raw != "" {
		date, ok := recurrence.ParseDate(raw)
		if !ok {
			httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid to date %q", raw)))
			return f, false
		}
		f.To = date
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpkit.HandleError(c, apperr.BadRequest("invalid limit"))
			return f, false
		}
		f.Limit = n
	}
	return f, true
}
