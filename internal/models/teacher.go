package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TeacherAvailabilitySlot marks a (day, start time) window a teacher has
// declared as teachable.
type TeacherAvailabilitySlot struct {
	DayOfWeek string    `json:"day_of_week"`
	StartTime TimeOfDay `json:"start_time"`
}

// Teacher represents an instructor record. Availability is an optional JSON
// array of TeacherAvailabilitySlot; when empty the teacher is considered
// available at every slot.
type Teacher struct {
	ID           string         `db:"id" json:"id"`
	FullName     string         `db:"full_name" json:"full_name"`
	Department   string         `db:"department" json:"department"`
	Availability types.JSONText `db:"availability" json:"availability,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// AvailabilitySlots decodes the declared availability windows. A missing or
// empty column yields nil, meaning no restriction.
func (t *Teacher) AvailabilitySlots() ([]TeacherAvailabilitySlot, error) {
	if len(t.Availability) == 0 || string(t.Availability) == "null" {
		return nil, nil
	}
	var slots []TeacherAvailabilitySlot
	if err := json.Unmarshal(t.Availability, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
