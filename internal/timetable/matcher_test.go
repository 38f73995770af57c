package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

func TestEquipmentSatisfied(t *testing.T) {
	cases := []struct {
		name      string
		required  string
		available string
		want      bool
	}{
		{"no requirement", "", "whiteboard,ac", true},
		{"exact token", "Projector", "projector,ac", true},
		{"required contains available", "projector-4k", "projector", true},
		{"available contains required", "proj", "Projector,AC", true},
		{"case insensitive", "PROJECTOR", "projector", true},
		{"missing token", "Projector", "whiteboard,ac", false},
		{"one of two missing", "projector,lab-pc", "projector", false},
		{"all tokens present", "projector, ac", "AC,Projector,whiteboard", true},
		{"whitespace tokens ignored", " , ", "anything", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, equipmentSatisfied(tc.required, tc.available))
		})
	}
}

func TestFindResourcesCapacityFilter(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Code: "CS101", Department: "CS", MinCapacity: 50}
	pool := NewResourcePool(
		[]models.Classroom{
			{ID: "small", RoomNumber: "101", Capacity: 30},
			{ID: "big", RoomNumber: "201", Capacity: 80},
		},
		[]models.Teacher{{ID: "t1", Department: "CS"}},
		nil,
	)

	match, ok := engine.FindResources(course, testSlot("s1", "MONDAY", 9), nil, NewOccupancy(), pool)
	require.True(t, ok)
	assert.Equal(t, "big", match.Classroom.ID)
}

func TestFindResourcesDepartmentFilter(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Department: "MATH", MinCapacity: 1}
	pool := NewResourcePool(
		[]models.Classroom{{ID: "r1", Capacity: 40}},
		[]models.Teacher{
			{ID: "cs-only", Department: "CS"},
			{ID: "math", Department: "MATH"},
		},
		nil,
	)

	match, ok := engine.FindResources(course, testSlot("s1", "MONDAY", 9), nil, NewOccupancy(), pool)
	require.True(t, ok)
	assert.Equal(t, "math", match.Teacher.ID)
}

func TestFindResourcesExcludesOccupiedKey(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Department: "CS", MinCapacity: 1}
	pool := NewResourcePool(
		[]models.Classroom{{ID: "r1", Capacity: 40}, {ID: "r2", Capacity: 40}},
		[]models.Teacher{{ID: "t1", Department: "CS"}, {ID: "t2", Department: "CS"}},
		nil,
	)
	slot := testSlot("s1", "MONDAY", 9)

	occ := NewOccupancy()
	occ.Rooms[KeyFor(slot)] = "r1"
	_, ok := engine.FindResources(course, slot, nil, occ, pool)
	assert.False(t, ok, "a key with a committed room is fully booked")

	occ = NewOccupancy()
	occ.Teachers[KeyFor(slot)] = "t1"
	_, ok = engine.FindResources(course, slot, nil, occ, pool)
	assert.False(t, ok, "a key with a committed teacher is fully booked")
}

func TestFindResourcesGroupUsedSlot(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Department: "CS", MinCapacity: 1}
	pool := NewResourcePool(
		[]models.Classroom{{ID: "r1", Capacity: 40}},
		[]models.Teacher{{ID: "t1", Department: "CS"}},
		nil,
	)
	slot := testSlot("s1", "MONDAY", 9)
	used := map[SlotKey]struct{}{KeyFor(slot): {}}

	_, ok := engine.FindResources(course, slot, used, NewOccupancy(), pool)
	assert.False(t, ok, "the group already has a class at this slot")
}

func TestFindResourcesBreakSlot(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Department: "CS", MinCapacity: 1}
	pool := NewResourcePool(
		[]models.Classroom{{ID: "r1", Capacity: 40}},
		[]models.Teacher{{ID: "t1", Department: "CS"}},
		nil,
	)
	slot := testSlot("s1", "MONDAY", 12)
	slot.IsBreak = true

	_, ok := engine.FindResources(course, slot, nil, NewOccupancy(), pool)
	assert.False(t, ok)
}

func TestFindResourcesNoAvailabilityMeansAlwaysAvailable(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Department: "CS", MinCapacity: 1}
	pool := NewResourcePool(
		[]models.Classroom{{ID: "r1", Capacity: 40}},
		[]models.Teacher{{ID: "t1", Department: "CS"}}, // no declared windows
		nil,
	)

	for _, slot := range weekSlots(5) {
		_, ok := engine.FindResources(course, slot, nil, NewOccupancy(), pool)
		assert.True(t, ok, "teacher without declared availability must match slot %s %s", slot.DayOfWeek, slot.StartTime)
	}
}

func TestFindResourcesRestrictedAvailability(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Department: "CS", MinCapacity: 1}
	teacher := models.Teacher{ID: "t1", Department: "CS"}
	teacher.Availability = []byte(`[{"day_of_week":"TUESDAY","start_time":"10:00"}]`)
	pool := NewResourcePool(
		[]models.Classroom{{ID: "r1", Capacity: 40}},
		[]models.Teacher{teacher},
		nil,
	)

	_, ok := engine.FindResources(course, testSlot("s1", "MONDAY", 10), nil, NewOccupancy(), pool)
	assert.False(t, ok)

	match, ok := engine.FindResources(course, testSlot("s2", "TUESDAY", 10), nil, NewOccupancy(), pool)
	require.True(t, ok)
	assert.Equal(t, "t1", match.Teacher.ID)
}

func TestFindResourcesHasNoSideEffects(t *testing.T) {
	engine := newTestEngine(1)
	course := models.Course{ID: "c1", Department: "CS", MinCapacity: 1}
	pool := NewResourcePool(
		[]models.Classroom{{ID: "r1", Capacity: 40}},
		[]models.Teacher{{ID: "t1", Department: "CS"}},
		nil,
	)
	slot := testSlot("s1", "MONDAY", 9)
	occ := NewOccupancy()

	_, ok := engine.FindResources(course, slot, nil, occ, pool)
	require.True(t, ok)
	assert.Empty(t, occ.Rooms, "matching must not reserve anything")
	assert.Empty(t, occ.Teachers)

	_, ok = engine.FindResources(course, slot, nil, occ, pool)
	assert.True(t, ok, "repeated matching against untouched maps succeeds")
}
