package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/testudo-plus/schedule-api/internal/dto"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
	"github.com/testudo-plus/schedule-api/pkg/response"
)

type advisorService interface {
	Recommend(ctx context.Context, req dto.AdvisorRequest) (*dto.AdvisorResponse, error)
	Ask(ctx context.Context, req dto.CompassRequest) (*dto.CompassResponse, error)
}

// AdvisorHandler exposes the recommendation and campus-compass proxies.
type AdvisorHandler struct {
	service advisorService
}

// NewAdvisorHandler builds a new handler.
func NewAdvisorHandler(service advisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

// Recommend godoc
// @Summary Recommend catalog courses for a free-text request
// @Tags Advisor
// @Accept json
// @Produce json
// @Param request body dto.AdvisorRequest true "Free-text query and optional term"
// @Success 200 {object} response.Envelope
// @Router /advisor/recommend [post]
func (h *AdvisorHandler) Recommend(c *gin.Context) {
	var req dto.AdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.service.Recommend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// Ask godoc
// @Summary Answer a campus-logistics question
// @Tags Compass
// @Accept json
// @Produce json
// @Param request body dto.CompassRequest true "Question"
// @Success 200 {object} response.Envelope
// @Router /compass/ask [post]
func (h *AdvisorHandler) Ask(c *gin.Context) {
	var req dto.CompassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.service.Ask(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
