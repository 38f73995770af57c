package timetable

import "github.com/andhika-lab/uni-timetable-api/internal/models"

// ValidationReport summarises the post-generation consistency check.
type ValidationReport struct {
	Valid            bool `json:"valid"`
	RoomConflicts    int  `json:"room_conflicts"`
	TeacherConflicts int  `json:"teacher_conflicts"`
}

// Validate re-derives classroom and teacher usage from scratch across every
// group's entries and reports any (day, start) key occupied by more than one
// distinct classroom or teacher. It is a pure function of its input and does
// not trust how the entries were produced.
func Validate(result map[string][]models.TimetableEntry) ValidationReport {
	rooms := make(map[SlotKey]map[string]struct{})
	teachers := make(map[SlotKey]map[string]struct{})
	for _, entries := range result {
		for _, entry := range entries {
			key := EntryKey(entry)
			if rooms[key] == nil {
				rooms[key] = make(map[string]struct{})
			}
			rooms[key][entry.ClassroomID] = struct{}{}
			if teachers[key] == nil {
				teachers[key] = make(map[string]struct{})
			}
			teachers[key][entry.TeacherID] = struct{}{}
		}
	}

	report := ValidationReport{}
	for _, ids := range rooms {
		if len(ids) > 1 {
			report.RoomConflicts++
		}
	}
	for _, ids := range teachers {
		if len(ids) > 1 {
			report.TeacherConflicts++
		}
	}
	report.Valid = report.RoomConflicts == 0 && report.TeacherConflicts == 0
	return report
}
