package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/testudo-plus/schedule-api/internal/dto"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
	"github.com/testudo-plus/schedule-api/pkg/response"
)

type scheduleService interface {
	Build(ctx context.Context, req dto.BuildScheduleRequest) (*dto.BuildScheduleResponse, error)
	Export(ctx context.Context, req dto.ExportScheduleRequest) (string, error)
}

// ScheduleHandler exposes schedule building and export.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Build godoc
// @Summary Build conflict-free schedules from free text
// @Description Extracts constraints from the request text, resolves the catalog, and returns ranked conflict-free schedules
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.BuildScheduleRequest true "Free-text request and optional term"
// @Success 200 {object} response.Envelope
// @Router /schedule/build [post]
func (h *ScheduleHandler) Build(c *gin.Context) {
	var req dto.BuildScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.service.Build(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// Export godoc
// @Summary Export a built schedule as an iCalendar file
// @Tags Schedule
// @Produce text/calendar
// @Param freeText query string true "Free-text request"
// @Param termId query string false "Term id, e.g. 202508"
// @Param rank query int false "Which ranked schedule to export (1-based)"
// @Success 200 {string} string "iCalendar document"
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	req := dto.ExportScheduleRequest{
		FreeText: c.Query("freeText"),
		TermID:   c.Query("termId"),
	}
	if rank, err := strconv.Atoi(c.DefaultQuery("rank", "1")); err == nil {
		req.Rank = rank
	}

	ics, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
