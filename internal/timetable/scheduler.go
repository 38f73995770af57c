package timetable

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

// PlacementFailure describes why a group could not be fully scheduled: which
// course gave up, after how many attempts, and how far it got. It is the
// structured alternative to a bare boolean failure signal.
type PlacementFailure struct {
	GroupID         string `json:"group_id"`
	CourseID        string `json:"course_id"`
	CourseCode      string `json:"course_code,omitempty"`
	PeriodsRequired int    `json:"periods_required"`
	PeriodsPlaced   int    `json:"periods_placed"`
	Attempts        int    `json:"attempts"`
	Reason          string `json:"reason"`
}

// Error implements the error interface.
func (f *PlacementFailure) Error() string {
	if f == nil {
		return "<nil>"
	}
	return f.Reason
}

// ScheduleGroup places every assigned course's full weekly period quota for
// one group, or fails as a whole. Courses are processed in descending
// periods-per-week order: heavier courses are harder to place later. The
// per-group used-slot set grows with every placement so the group never holds
// two simultaneous classes. The occupancy maps are read but not written;
// committing a completed group is the caller's responsibility.
func (e *Engine) ScheduleGroup(
	group models.StudentGroup,
	courses []models.Course,
	slots []models.TimeSlot,
	occ *Occupancy,
	pool *ResourcePool,
) ([]models.TimetableEntry, *PlacementFailure) {
	assignable := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsBreak {
			assignable = append(assignable, slot)
		}
	}

	ordered := make([]models.Course, len(courses))
	copy(ordered, courses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PeriodsPerWeek > ordered[j].PeriodsPerWeek
	})

	maxAttempts := e.cfg.AttemptFactor * len(assignable)
	used := make(map[SlotKey]struct{})
	var entries []models.TimetableEntry

	for _, course := range ordered {
		if course.PeriodsPerWeek <= 0 {
			continue
		}
		placed := 0
		attempts := 0
		for placed < course.PeriodsPerWeek && attempts < maxAttempts {
			attempts++
			order := make([]models.TimeSlot, len(assignable))
			copy(order, assignable)
			e.rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})

			for _, slot := range order {
				match, ok := e.FindResources(course, slot, used, occ, pool)
				if !ok {
					continue
				}
				entries = append(entries, newEntry(group, course, match))
				used[KeyFor(match.Slot)] = struct{}{}
				placed++
				break
			}
		}
		if placed < course.PeriodsPerWeek {
			// Give up, discarding everything placed for this group so far.
			return nil, &PlacementFailure{
				GroupID:         group.ID,
				CourseID:        course.ID,
				CourseCode:      course.Code,
				PeriodsRequired: course.PeriodsPerWeek,
				PeriodsPlaced:   placed,
				Attempts:        attempts,
				Reason: fmt.Sprintf("course %s: placed %d of %d weekly periods for group %s within %d attempts",
					course.Code, placed, course.PeriodsPerWeek, group.Name, attempts),
			}
		}
	}
	return entries, nil
}

func newEntry(group models.StudentGroup, course models.Course, match ResourceMatch) models.TimetableEntry {
	return models.TimetableEntry{
		ID:          uuid.NewString(),
		GroupID:     group.ID,
		CourseID:    course.ID,
		TeacherID:   match.Teacher.ID,
		ClassroomID: match.Classroom.ID,
		TimeSlotID:  match.Slot.ID,
		DayOfWeek:   match.Slot.DayOfWeek,
		StartTime:   match.Slot.StartTime,
		EndTime:     match.Slot.EndTime,
		CourseCode:  course.Code,
		CourseName:  course.Name,
		TeacherName: match.Teacher.FullName,
		RoomNumber:  match.Classroom.RoomNumber,
	}
}
