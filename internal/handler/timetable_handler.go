package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andhika-lab/uni-timetable-api/internal/dto"
	"github.com/andhika-lab/uni-timetable-api/internal/models"
	appErrors "github.com/andhika-lab/uni-timetable-api/pkg/errors"
	"github.com/andhika-lab/uni-timetable-api/pkg/response"
)

type timetableScheduler interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	CheckFeasibility(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.FeasibilityResponse, error)
	GroupTimetable(ctx context.Context, groupID string) ([]models.TimetableEntry, error)
	ExportGroupTimetable(ctx context.Context, groupID string) ([]byte, string, error)
	EnqueueGeneration(req dto.GenerateTimetableRequest) (*dto.RunStatusResponse, error)
	GetRun(runID string) (*dto.RunStatusResponse, error)
}

// TimetableHandler exposes timetable generation and retrieval endpoints.
type TimetableHandler struct {
	service      timetableScheduler
	asyncEnabled bool
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableScheduler, asyncEnabled bool) *TimetableHandler {
	return &TimetableHandler{service: svc, asyncEnabled: asyncEnabled}
}

// Generate runs a synchronous generation over the requested scope.
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateAsync queues a generation run and returns its id immediately.
func (h *TimetableHandler) GenerateAsync(c *gin.Context) {
	if !h.asyncEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "async generation is disabled"))
		return
	}
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	run, err := h.service.EnqueueGeneration(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, run)
}

// Run reports the status of an async generation run.
func (h *TimetableHandler) Run(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Feasibility runs the static pre-check without generating.
func (h *TimetableHandler) Feasibility(c *gin.Context) {
	req, err := scopeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.CheckFeasibility(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GroupTimetable returns the stored timetable for one group.
func (h *TimetableHandler) GroupTimetable(c *gin.Context) {
	entries, err := h.service.GroupTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ExportGroupTimetable streams the group timetable as a PDF attachment.
func (h *TimetableHandler) ExportGroupTimetable(c *gin.Context) {
	pdf, filename, err := h.service.ExportGroupTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func scopeFromQuery(c *gin.Context) (dto.GenerateTimetableRequest, error) {
	var req dto.GenerateTimetableRequest
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return req, appErrors.Clone(appErrors.ErrValidation, "year must be an integer")
		}
		req.Year = year
	}
	if raw := c.Query("semester"); raw != "" {
		semester, err := strconv.Atoi(raw)
		if err != nil {
			return req, appErrors.Clone(appErrors.ErrValidation, "semester must be an integer")
		}
		req.Semester = semester
	}
	return req, nil
}
