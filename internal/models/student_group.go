package models

import "time"

// StudentGroup represents a cohort of students that follows one timetable.
type StudentGroup struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Department string    `db:"department" json:"department"`
	Year       int       `db:"year" json:"year"`
	Semester   int       `db:"semester" json:"semester"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// GroupFilter narrows group listings; zero values match everything.
type GroupFilter struct {
	Department string
	Year       int
	Semester   int
}

// GroupCourse maps a course onto a student group. Membership is decided by
// administrators, never derived by the scheduler.
type GroupCourse struct {
	ID        string    `db:"id" json:"id"`
	GroupID   string    `db:"group_id" json:"group_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
