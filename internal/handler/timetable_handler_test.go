package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/andhika-lab/uni-timetable-api/internal/dto"
	"github.com/andhika-lab/uni-timetable-api/internal/models"
	appErrors "github.com/andhika-lab/uni-timetable-api/pkg/errors"
)

type timetableServiceMock struct {
	generateResp    *dto.GenerateTimetableResponse
	generateErr     error
	feasibilityResp *dto.FeasibilityResponse
	entries         []models.TimetableEntry
	run             *dto.RunStatusResponse
}

func (m *timetableServiceMock) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.generateResp, nil
}

func (m *timetableServiceMock) CheckFeasibility(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.FeasibilityResponse, error) {
	return m.feasibilityResp, nil
}

func (m *timetableServiceMock) GroupTimetable(ctx context.Context, groupID string) ([]models.TimetableEntry, error) {
	if groupID == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student group not found")
	}
	return m.entries, nil
}

func (m *timetableServiceMock) ExportGroupTimetable(ctx context.Context, groupID string) ([]byte, string, error) {
	return []byte("%PDF-1.4 fake"), "timetable_test.pdf", nil
}

func (m *timetableServiceMock) EnqueueGeneration(req dto.GenerateTimetableRequest) (*dto.RunStatusResponse, error) {
	return m.run, nil
}

func (m *timetableServiceMock) GetRun(runID string) (*dto.RunStatusResponse, error) {
	if m.run == nil || m.run.RunID != runID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation run not found or expired")
	}
	return m.run, nil
}

func TestTimetableHandlerGenerateInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", strings.NewReader("{not json"))
	c.Request = req

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{
		generateResp: &dto.GenerateTimetableResponse{TotalEntries: 3, Persisted: true},
	}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", strings.NewReader(`{"year":1,"semester":1}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total_entries":3`)
}

func TestTimetableHandlerGenerateUnschedulable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{
		generateErr: appErrors.Clone(appErrors.ErrUnschedulable, "could not place course CS101"),
	}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	require.Equal(t, appErrors.ErrUnschedulable.Status, w.Code)
}

func TestTimetableHandlerGenerateAsyncDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate/async", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.GenerateAsync(c)
	require.Equal(t, appErrors.ErrPreconditionFailed.Status, w.Code)
}

func TestTimetableHandlerGenerateAsyncAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{
		run: &dto.RunStatusResponse{RunID: "run-1", Status: dto.RunStatusQueued},
	}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate/async", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.GenerateAsync(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), `"run_id":"run-1"`)
}

func TestTimetableHandlerRunNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/runs/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Run(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerFeasibilityBadQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/feasibility?year=first", nil)
	c.Request = req

	handler.Feasibility(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerFeasibility(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{
		feasibilityResp: &dto.FeasibilityResponse{Feasible: false, Reason: "no classrooms defined"},
	}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/feasibility?year=1&semester=2", nil)
	c.Request = req

	handler.Feasibility(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"feasible":false`)
}

func TestTimetableHandlerGroupTimetable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{
		entries: []models.TimetableEntry{{ID: "e1", GroupID: "g1", CourseCode: "CS101"}},
	}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/groups/g1/timetable", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "g1"}}

	handler.GroupTimetable(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"course_code":"CS101"`)
}

func TestTimetableHandlerGroupTimetableNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/groups/missing/timetable", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.GroupTimetable(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/groups/g1/timetable/export", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "g1"}}

	handler.ExportGroupTimetable(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "timetable_test.pdf")
	require.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}
