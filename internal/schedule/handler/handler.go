package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fieldservice_backend/internal/schedule/recurrence"
	"fieldservice_backend/internal/schedule/service"
	"fieldservice_backend/internal/schedule/transport"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/httpkit"
	"fieldservice_backend/platform/logger"
)

// Handler exposes the schedule over HTTP.
type Handler struct {
	svc *service.Service
	log *logger.Logger
}

func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the schedule endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/schedule", h.getSchedule)
	r.GET("/schedule/frequencies", h.getFrequencies)
	r.POST("/schedule/actions", h.processActions)
	r.POST("/schedule/smart-reschedule", h.smartReschedule)
	r.GET("/calendar", h.getCalendar)
}

// getSchedule returns the pending schedule. Optional startDate and endDate
// query parameters bound the window; without them every overdue instance
// plus the default horizon is returned.
func (h *Handler) getSchedule(c *gin.Context) {
	var windowStart *time.Time
	var windowEnd time.Time

	if raw := c.Query("startDate"); raw != "" {
		date, ok := recurrence.ParseDate(raw)
		if !ok {
			httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", raw)))
			return
		}
		windowStart = &date
	}
	if raw := c.Query("endDate"); raw != "" {
		date, ok := recurrence.ParseDate(raw)
		if !ok {
			httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", raw)))
			return
		}
		windowEnd = date
	}

	instances, err := h.svc.PendingInstances(c.Request.Context(), windowStart, windowEnd)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := transport.ScheduleResponse{
		Instances: make([]transport.PendingInstanceResponse, 0, len(instances)),
		Count:     len(instances),
	}
	for _, inst := range instances {
		resp.Instances = append(resp.Instances, toInstanceResponse(inst))
	}
	httpkit.OK(c, resp)
}

func (h *Handler) getFrequencies(c *gin.Context) {
	names := recurrence.Frequencies()
	frequencies := make([]transport.FrequencyResponse, 0, len(names))
	for _, name := range names {
		days, _ := recurrence.FrequencyDays(name)
		frequencies = append(frequencies, transport.FrequencyResponse{Name: name, Days: days})
	}
	httpkit.OK(c, gin.H{"frequencies": frequencies})
}

func (h *Handler) processActions(c *gin.Context) {
	var req transport.ActionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	batch, err := h.toBatch(c, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	result, err := h.svc.ProcessBatch(c.Request.Context(), batch)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	h.writeBatchResult(c, result)
}

func (h *Handler) smartReschedule(c *gin.Context) {
	var req transport.SmartRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}
	originalDate, ok := recurrence.ParseDate(req.OriginalDate)
	if !ok {
		httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid original date %q", req.OriginalDate)))
		return
	}
	newDate, ok := recurrence.ParseDate(req.NewDate)
	if !ok {
		httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid new date %q", req.NewDate)))
		return
	}

	result, err := h.svc.SmartReschedule(c.Request.Context(), service.SmartRescheduleRequest{
		ServiceIDs:   req.ServiceIDs,
		Strategy:     req.Strategy,
		OriginalDate: originalDate,
		NewDate:      newDate,
		PerformedBy:  httpkit.GetUserName(c),
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	h.writeBatchResult(c, result)
}

// getCalendar groups the pending schedule by day for a month view. The year
// and month query parameters default to the current month.
func (h *Handler) getCalendar(c *gin.Context) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid year %q", raw)))
			return
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			httpkit.HandleError(c, apperr.BadRequest(fmt.Sprintf("invalid month %q, expected 1-12", raw)))
			return
		}
		month = v
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	instances, err := h.svc.PendingInstances(c.Request.Context(), &first, last)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	days := make(map[string][]transport.PendingInstanceResponse)
	for _, inst := range instances {
		key := recurrence.FormatDate(inst.Date)
		days[key] = append(days[key], toInstanceResponse(inst))
	}
	httpkit.OK(c, gin.H{"year": year, "month": month, "days": days})
}

// writeBatchResult maps a processed batch to HTTP: a validation rejection is
// a 422 with the structured errors, success is a 200.
func (h *Handler) writeBatchResult(c *gin.Context, result service.BatchResult) {
	resp := transport.BatchResponse{
		Success:     result.Success,
		Completed:   result.Completed,
		Cancelled:   result.Cancelled,
		Rescheduled: result.Rescheduled,
		Warnings:    result.Warnings,
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, transport.ValidationErrorResponse{
			ServiceID:       e.ServiceID,
			JobSiteName:     e.JobSiteName,
			Message:         e.Message,
			UnresolvedDates: e.UnresolvedDates,
		})
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) toBatch(c *gin.Context, req transport.ActionBatchRequest) (service.Batch, error) {
	performedBy := httpkit.GetUserName(c)
	var batch service.Batch

	for _, r := range req.Completions {
		scheduled, ok := recurrence.ParseDate(r.ScheduledDate)
		if !ok {
			return service.Batch{}, apperr.BadRequest(fmt.Sprintf("invalid scheduled date %q", r.ScheduledDate))
		}
		var completed time.Time
		if r.CompletionDate != "" {
			completed, ok = recurrence.ParseDate(r.CompletionDate)
			if !ok {
				return service.Batch{}, apperr.BadRequest(fmt.Sprintf("invalid completion date %q", r.CompletionDate))
			}
		}
		batch.Completions = append(batch.Completions, service.Action{
			ServiceID:      r.ServiceID,
			ScheduledDate:  scheduled,
			CompletionDate: completed,
			Notes:          r.Notes,
			PerformedBy:    performedBy,
		})
	}
	for _, r := range req.Cancellations {
		scheduled, ok := recurrence.ParseDate(r.ScheduledDate)
		if !ok {
			return service.Batch{}, apperr.BadRequest(fmt.Sprintf("invalid scheduled date %q", r.ScheduledDate))
		}
		batch.Cancellations = append(batch.Cancellations, service.Action{
			ServiceID:     r.ServiceID,
			ScheduledDate: scheduled,
			Notes:         r.Notes,
			PerformedBy:   performedBy,
		})
	}
	for _, r := range req.Reschedules {
		scheduled, ok := recurrence.ParseDate(r.ScheduledDate)
		if !ok {
			return service.Batch{}, apperr.BadRequest(fmt.Sprintf("invalid scheduled date %q", r.ScheduledDate))
		}
		newDate, ok := recurrence.ParseDate(r.NewDate)
		if !ok {
			return service.Batch{}, apperr.BadRequest(fmt.Sprintf("invalid new date %q", r.NewDate))
		}
		batch.Reschedules = append(batch.Reschedules, service.Action{
			ServiceID:     r.ServiceID,
			ScheduledDate: scheduled,
			NewDate:       newDate,
			Notes:         r.Notes,
			PerformedBy:   performedBy,
		})
	}
	return batch, nil
}

func toInstanceResponse(inst service.Instance) transport.PendingInstanceResponse {
	return transport.PendingInstanceResponse{
		ServiceID:      inst.ServiceID,
		JobSiteID:      inst.JobSiteID,
		JobSiteName:    inst.JobSiteName,
		Address:        inst.Address,
		City:           inst.City,
		County:         inst.County,
		ServiceType:    inst.ServiceType,
		Frequency:      inst.Frequency,
		ScheduledDate:  recurrence.FormatDate(inst.Date),
		OriginalDate:   recurrence.FormatDate(inst.OriginalDate),
		IsManual:       inst.IsManual,
		DaysOverdue:    inst.DaysOverdue,
		Priority:       inst.Priority,
		TimeConstraint: inst.TimeConstraint,
		Notes:          inst.Notes,
		ManifestCounty: inst.ManifestCounty,
	}
}
