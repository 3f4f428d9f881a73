package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/testudo-plus/schedule-api/internal/dto"
	"github.com/testudo-plus/schedule-api/pkg/response"
)

type termService interface {
	List() dto.TermsResponse
}

// TermHandler exposes the selectable terms.
type TermHandler struct {
	service termService
}

// NewTermHandler builds a new handler.
func NewTermHandler(service termService) *TermHandler {
	return &TermHandler{service: service}
}

// List godoc
// @Summary List selectable academic terms
// @Tags Terms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	response.OK(c, h.service.List())
}
