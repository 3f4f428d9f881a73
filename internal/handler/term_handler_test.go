package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testudo-plus/schedule-api/internal/dto"
	"github.com/testudo-plus/schedule-api/internal/models"
)

type termServiceMock struct {
	resp dto.TermsResponse
}

func (m *termServiceMock) List() dto.TermsResponse {
	return m.resp
}

func TestTermHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &termServiceMock{resp: dto.TermsResponse{
		Terms:   []models.Term{{ID: "202508", Label: "Fall 2025"}},
		Current: "202508",
	}}
	handler := NewTermHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/terms", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fall 2025")
	assert.Contains(t, w.Body.String(), `"current":"202508"`)
}
