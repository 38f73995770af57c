package dto

import (
	"time"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
	"github.com/andhika-lab/uni-timetable-api/internal/timetable"
)

// GenerateTimetableRequest scopes a generation run. Year and semester narrow
// the student groups included; zero values include every group.
type GenerateTimetableRequest struct {
	Year     int  `json:"year" validate:"omitempty,min=1"`
	Semester int  `json:"semester" validate:"omitempty,min=1,max=2"`
	DryRun   bool `json:"dry_run"`
}

// GenerateTimetableResponse returns the accepted schedule and its validation
// verdict.
type GenerateTimetableResponse struct {
	Entries      map[string][]models.TimetableEntry `json:"entries"`
	TotalEntries int                                `json:"total_entries"`
	Validation   timetable.ValidationReport         `json:"validation"`
	Persisted    bool                               `json:"persisted"`
}

// FeasibilityResponse carries the pre-check verdict. Feasible true is
// optimistic only; a later generation failure overrides it.
type FeasibilityResponse struct {
	Feasible bool   `json:"feasible"`
	Reason   string `json:"reason,omitempty"`
}

// Generation run lifecycle states.
const (
	RunStatusQueued    = "QUEUED"
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
)

// RunStatusResponse reports an async generation run.
type RunStatusResponse struct {
	RunID        string                      `json:"run_id"`
	Status       string                      `json:"status"`
	EnqueuedAt   time.Time                   `json:"enqueued_at"`
	FinishedAt   *time.Time                  `json:"finished_at,omitempty"`
	TotalEntries int                         `json:"total_entries,omitempty"`
	Validation   *timetable.ValidationReport `json:"validation,omitempty"`
	Failure      *timetable.PlacementFailure `json:"failure,omitempty"`
	Error        string                      `json:"error,omitempty"`
}
