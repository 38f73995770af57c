package models

import "time"

// Course represents a taught course and its weekly scheduling demand.
type Course struct {
	ID                string    `db:"id" json:"id"`
	Code              string    `db:"code" json:"code"`
	Name              string    `db:"name" json:"name"`
	Department        string    `db:"department" json:"department"`
	Subject           string    `db:"subject" json:"subject"`
	PeriodsPerWeek    int       `db:"periods_per_week" json:"periods_per_week"`
	RequiredEquipment string    `db:"required_equipment" json:"required_equipment"`
	MinCapacity       int       `db:"min_capacity" json:"min_capacity"`
	MaxStudents       int       `db:"max_students" json:"max_students"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
