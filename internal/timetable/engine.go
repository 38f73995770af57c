package timetable

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

// DefaultAttemptFactor bounds placement retries per course at
// DefaultAttemptFactor × slot count. The value is an empirical default, kept
// tunable through Config.
const DefaultAttemptFactor = 2

// Config tunes the search policy.
type Config struct {
	// AttemptFactor multiplies the assignable slot count to produce the
	// per-course attempt bound.
	AttemptFactor int
}

// Engine runs the randomized greedy timetable search. It holds no occupancy
// state of its own; every generation call starts from fresh maps, so a single
// Engine is safe to reuse across sequential runs.
type Engine struct {
	rng    Rand
	logger *zap.Logger
	cfg    Config
}

// NewEngine builds an engine with the given random source. A nil rng falls
// back to a time-seeded source and a nil logger to a no-op logger.
func NewEngine(rng Rand, logger *zap.Logger, cfg Config) *Engine {
	if rng == nil {
		rng = NewRand()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AttemptFactor <= 0 {
		cfg.AttemptFactor = DefaultAttemptFactor
	}
	return &Engine{rng: rng, logger: logger, cfg: cfg}
}

// Inputs carries the flat collections one generation run consumes. The
// scheduler never loads or persists anything itself.
type Inputs struct {
	Groups     []models.StudentGroup
	Courses    []models.Course
	Classrooms []models.Classroom
	Teachers   []models.Teacher
	TimeSlots  []models.TimeSlot

	// GroupCourses maps each group id to its assigned course ids. Membership
	// is decided externally.
	GroupCourses map[string][]string
}

// Generate schedules every group in input order against cumulative occupancy
// maps. Semantics are all-or-nothing: if any group cannot be fully placed the
// whole run fails and no partial result is returned. Because later groups see
// earlier groups' commitments but not vice versa, processing order affects
// which groups succeed under tight resources; that ordering dependency is
// accepted.
func (e *Engine) Generate(in Inputs) (map[string][]models.TimetableEntry, *PlacementFailure) {
	occ := NewOccupancy()
	pool := NewResourcePool(in.Classrooms, in.Teachers, e.logger)

	courseByID := make(map[string]models.Course, len(in.Courses))
	for _, course := range in.Courses {
		courseByID[course.ID] = course
	}

	result := make(map[string][]models.TimetableEntry, len(in.Groups))
	for _, group := range in.Groups {
		assigned := make([]models.Course, 0, len(in.GroupCourses[group.ID]))
		for _, courseID := range in.GroupCourses[group.ID] {
			course, ok := courseByID[courseID]
			if !ok {
				return nil, &PlacementFailure{
					GroupID:  group.ID,
					CourseID: courseID,
					Reason:   fmt.Sprintf("course %s assigned to group %s is not in the course list", courseID, group.ID),
				}
			}
			assigned = append(assigned, course)
		}

		entries, failure := e.ScheduleGroup(group, assigned, in.TimeSlots, occ, pool)
		if failure != nil {
			e.logger.Warn("timetable generation aborted",
				zap.String("group_id", failure.GroupID),
				zap.String("course_id", failure.CourseID),
				zap.Int("attempts", failure.Attempts),
				zap.Int("periods_placed", failure.PeriodsPlaced),
				zap.Int("periods_required", failure.PeriodsRequired))
			return nil, failure
		}
		occ.Commit(entries)
		result[group.ID] = entries
	}
	return result, nil
}
