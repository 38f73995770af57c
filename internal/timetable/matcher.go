package timetable

import (
	"strings"

	"go.uber.org/zap"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

// ResourcePool is the immutable candidate set for one generation run, with
// teacher availability decoded once up front.
type ResourcePool struct {
	Classrooms []models.Classroom
	Teachers   []models.Teacher

	availability map[string]map[SlotKey]struct{}
}

// NewResourcePool prepares candidates and decodes declared teacher
// availability. A teacher with no declared windows has a nil set and is
// treated as available everywhere. Malformed availability payloads are logged
// and treated as unrestricted.
func NewResourcePool(classrooms []models.Classroom, teachers []models.Teacher, logger *zap.Logger) *ResourcePool {
	if logger == nil {
		logger = zap.NewNop()
	}
	availability := make(map[string]map[SlotKey]struct{}, len(teachers))
	for _, teacher := range teachers {
		slots, err := teacher.AvailabilitySlots()
		if err != nil {
			logger.Warn("ignoring malformed teacher availability",
				zap.String("teacher_id", teacher.ID), zap.Error(err))
			continue
		}
		if len(slots) == 0 {
			continue
		}
		set := make(map[SlotKey]struct{}, len(slots))
		for _, slot := range slots {
			set[SlotKey{Day: slot.DayOfWeek, Start: slot.StartTime}] = struct{}{}
		}
		availability[teacher.ID] = set
	}
	return &ResourcePool{Classrooms: classrooms, Teachers: teachers, availability: availability}
}

// TeacherAvailableAt reports whether a teacher may take the given key.
func (p *ResourcePool) TeacherAvailableAt(teacherID string, key SlotKey) bool {
	set, ok := p.availability[teacherID]
	if !ok {
		return true
	}
	_, ok = set[key]
	return ok
}

// ResourceMatch is a successful (slot, classroom, teacher) resolution.
type ResourceMatch struct {
	Slot      models.TimeSlot
	Classroom models.Classroom
	Teacher   models.Teacher
}

// FindResources reports whether the course can be held at the candidate slot
// and with which classroom and teacher. It only reads availability; committing
// resources is the orchestrator's job.
func (e *Engine) FindResources(
	course models.Course,
	slot models.TimeSlot,
	groupUsed map[SlotKey]struct{},
	occ *Occupancy,
	pool *ResourcePool,
) (ResourceMatch, bool) {
	if slot.IsBreak {
		return ResourceMatch{}, false
	}
	key := KeyFor(slot)
	if _, taken := groupUsed[key]; taken {
		return ResourceMatch{}, false
	}
	classroom, ok := e.findClassroom(course, key, occ, pool)
	if !ok {
		return ResourceMatch{}, false
	}
	teacher, ok := e.findTeacher(course, key, occ, pool)
	if !ok {
		return ResourceMatch{}, false
	}
	return ResourceMatch{Slot: slot, Classroom: classroom, Teacher: teacher}, true
}

func (e *Engine) findClassroom(course models.Course, key SlotKey, occ *Occupancy, pool *ResourcePool) (models.Classroom, bool) {
	// A key that already holds a room is fully booked; one class runs per
	// (day, start) across the institution.
	if _, taken := occ.Rooms[key]; taken {
		return models.Classroom{}, false
	}
	candidates := make([]models.Classroom, 0, len(pool.Classrooms))
	for _, room := range pool.Classrooms {
		if room.Capacity < course.MinCapacity {
			continue
		}
		if !equipmentSatisfied(course.RequiredEquipment, room.Equipment) {
			continue
		}
		candidates = append(candidates, room)
	}
	if len(candidates) == 0 {
		return models.Classroom{}, false
	}
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[0], true
}

func (e *Engine) findTeacher(course models.Course, key SlotKey, occ *Occupancy, pool *ResourcePool) (models.Teacher, bool) {
	if _, taken := occ.Teachers[key]; taken {
		return models.Teacher{}, false
	}
	candidates := make([]models.Teacher, 0, len(pool.Teachers))
	for _, teacher := range pool.Teachers {
		if teacher.Department != course.Department {
			continue
		}
		if !pool.TeacherAvailableAt(teacher.ID, key) {
			continue
		}
		candidates = append(candidates, teacher)
	}
	if len(candidates) == 0 {
		return models.Teacher{}, false
	}
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[0], true
}

// equipmentSatisfied applies the loose comma-token match: every required token
// must substring-match some available token in either direction,
// case-insensitively. Tightening this to exact matching would change
// scheduling outcomes.
func equipmentSatisfied(required, available string) bool {
	requiredTokens := equipmentTokens(required)
	if len(requiredTokens) == 0 {
		return true
	}
	availableTokens := equipmentTokens(available)
	for _, req := range requiredTokens {
		matched := false
		for _, have := range availableTokens {
			if strings.Contains(have, req) || strings.Contains(req, have) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func equipmentTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
