package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/testudo-plus/schedule-api/internal/dto"
	"github.com/testudo-plus/schedule-api/internal/models"
	"github.com/testudo-plus/schedule-api/pkg/response"
)

type eventService interface {
	Upcoming(ctx context.Context) ([]models.CampusEvent, error)
}

// EventHandler exposes the campus events feed.
type EventHandler struct {
	service eventService
}

// NewEventHandler builds a new handler.
func NewEventHandler(service eventService) *EventHandler {
	return &EventHandler{service: service}
}

// Upcoming godoc
// @Summary List upcoming campus events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *gin.Context) {
	events, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.EventsResponse{Events: events})
}
