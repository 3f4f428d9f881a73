package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testudo-plus/schedule-api/internal/dto"
	"github.com/testudo-plus/schedule-api/internal/models"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

type scheduleServiceMock struct {
	buildResp  *dto.BuildScheduleResponse
	buildErr   error
	exportResp string
	exportErr  error
	lastBuild  dto.BuildScheduleRequest
	lastExport dto.ExportScheduleRequest
}

func (m *scheduleServiceMock) Build(ctx context.Context, req dto.BuildScheduleRequest) (*dto.BuildScheduleResponse, error) {
	m.lastBuild = req
	return m.buildResp, m.buildErr
}

func (m *scheduleServiceMock) Export(ctx context.Context, req dto.ExportScheduleRequest) (string, error) {
	m.lastExport = req
	return m.exportResp, m.exportErr
}

func TestScheduleHandlerBuild(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{
		buildResp: &dto.BuildScheduleResponse{
			Schedules: []models.ScheduleCandidate{{}},
			Meta:      dto.BuildScheduleMeta{TermID: "202508"},
		},
	}
	handler := NewScheduleHandler(mockSvc)

	payload, _ := json.Marshal(dto.BuildScheduleRequest{FreeText: "I need CMSC131", TermID: "202508"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedule/build", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Build(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "I need CMSC131", mockSvc.lastBuild.FreeText)
	assert.Contains(t, w.Body.String(), `"termId":"202508"`)
}

func TestScheduleHandlerBuildInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedule/build", bytes.NewBufferString(`{"freeText":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Build(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerBuildServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{buildErr: appErrors.ErrValidation}
	handler := NewScheduleHandler(mockSvc)

	payload, _ := json.Marshal(dto.BuildScheduleRequest{FreeText: "x"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedule/build", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Build(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{exportResp: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	handler := NewScheduleHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule/export?freeText=CMSC131&termId=202508&rank=2", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule.ics")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Equal(t, 2, mockSvc.lastExport.Rank)
	assert.Equal(t, "202508", mockSvc.lastExport.TermID)
}

func TestScheduleHandlerExportNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{exportErr: appErrors.ErrNotFound}
	handler := NewScheduleHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule/export?freeText=CMSC131&rank=9", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
