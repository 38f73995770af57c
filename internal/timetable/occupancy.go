package timetable

import "github.com/andhika-lab/uni-timetable-api/internal/models"

// SlotKey identifies a weekly (day, start time) position.
type SlotKey struct {
	Day   string
	Start models.TimeOfDay
}

// KeyFor derives the slot key of a time slot.
func KeyFor(slot models.TimeSlot) SlotKey {
	return SlotKey{Day: slot.DayOfWeek, Start: slot.StartTime}
}

// EntryKey derives the slot key of a placed timetable entry.
func EntryKey(entry models.TimetableEntry) SlotKey {
	return SlotKey{Day: entry.DayOfWeek, Start: entry.StartTime}
}

// Occupancy records which classroom and teacher hold each slot key across the
// whole institution. A key holds at most one occupant per resource type; a key
// already present is fully booked. Occupancy is scoped to one generation run
// and threaded explicitly, never held in package state.
type Occupancy struct {
	Rooms    map[SlotKey]string
	Teachers map[SlotKey]string
}

// NewOccupancy returns an empty occupancy map pair.
func NewOccupancy() *Occupancy {
	return &Occupancy{
		Rooms:    make(map[SlotKey]string),
		Teachers: make(map[SlotKey]string),
	}
}

// Commit merges a scheduled group's entries into the global maps. Called by
// the orchestrator after a group completes, so later groups cannot collide
// with earlier ones.
func (o *Occupancy) Commit(entries []models.TimetableEntry) {
	for _, entry := range entries {
		key := EntryKey(entry)
		o.Rooms[key] = entry.ClassroomID
		o.Teachers[key] = entry.TeacherID
	}
}
