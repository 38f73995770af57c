package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

func entryAt(group, room, teacher, day string, start models.TimeOfDay) models.TimetableEntry {
	return models.TimetableEntry{
		GroupID:     group,
		ClassroomID: room,
		TeacherID:   teacher,
		DayOfWeek:   day,
		StartTime:   start,
	}
}

func TestValidateCleanResult(t *testing.T) {
	result := map[string][]models.TimetableEntry{
		"g1": {
			entryAt("g1", "r1", "t1", "MONDAY", tod(9, 0)),
			entryAt("g1", "r1", "t1", "TUESDAY", tod(9, 0)),
		},
		"g2": {
			entryAt("g2", "r2", "t2", "WEDNESDAY", tod(9, 0)),
		},
	}

	report := Validate(result)
	assert.True(t, report.Valid)
	assert.Zero(t, report.RoomConflicts)
	assert.Zero(t, report.TeacherConflicts)
}

func TestValidateDetectsCrossGroupConflicts(t *testing.T) {
	result := map[string][]models.TimetableEntry{
		"g1": {entryAt("g1", "r1", "t1", "MONDAY", tod(9, 0))},
		"g2": {entryAt("g2", "r2", "t2", "MONDAY", tod(9, 0))},
	}

	report := Validate(result)
	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.RoomConflicts)
	assert.Equal(t, 1, report.TeacherConflicts)
}

func TestValidateCountsPerViolationType(t *testing.T) {
	// Same room at the key is not a room conflict set of size two, but two
	// different teachers there is a teacher conflict.
	result := map[string][]models.TimetableEntry{
		"g1": {entryAt("g1", "r1", "t1", "MONDAY", tod(9, 0))},
		"g2": {entryAt("g2", "r1", "t2", "MONDAY", tod(9, 0))},
	}

	report := Validate(result)
	assert.False(t, report.Valid)
	assert.Zero(t, report.RoomConflicts)
	assert.Equal(t, 1, report.TeacherConflicts)
}

func TestValidateIsIdempotent(t *testing.T) {
	result := map[string][]models.TimetableEntry{
		"g1": {entryAt("g1", "r1", "t1", "MONDAY", tod(9, 0))},
		"g2": {entryAt("g2", "r2", "t2", "MONDAY", tod(9, 0))},
	}

	first := Validate(result)
	second := Validate(result)
	assert.Equal(t, first, second)
}

func TestValidateEmptyResult(t *testing.T) {
	assert.True(t, Validate(nil).Valid)
	assert.True(t, Validate(map[string][]models.TimetableEntry{}).Valid)
}
