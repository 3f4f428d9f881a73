package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testudo-plus/schedule-api/internal/models"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

type eventServiceMock struct {
	events []models.CampusEvent
	err    error
}

func (m *eventServiceMock) Upcoming(ctx context.Context) ([]models.CampusEvent, error) {
	return m.events, m.err
}

func TestEventHandlerUpcoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &eventServiceMock{events: []models.CampusEvent{
		{Title: "First Look Fair", StartsAt: time.Date(2025, 9, 10, 11, 0, 0, 0, time.UTC)},
	}}
	handler := NewEventHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/events/upcoming", nil)
	c.Request = req

	handler.Upcoming(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First Look Fair")
}

func TestEventHandlerUpcomingFeedDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEventHandler(&eventServiceMock{err: appErrors.ErrInternal})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/events/upcoming", nil)
	c.Request = req

	handler.Upcoming(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
