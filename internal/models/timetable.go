package models

import "time"

// TimetableEntry binds one course period to a resolved (slot, classroom,
// teacher) triple for one student group. Entries are created by the scheduler
// and never mutated afterwards.
type TimetableEntry struct {
	ID          string    `db:"id" json:"id"`
	GroupID     string    `db:"group_id" json:"group_id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	TimeSlotID  string    `db:"time_slot_id" json:"time_slot_id"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartTime   TimeOfDay `db:"start_time" json:"start_time"`
	EndTime     TimeOfDay `db:"end_time" json:"end_time"`
	CourseCode  string    `db:"course_code" json:"course_code"`
	CourseName  string    `db:"course_name" json:"course_name"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	RoomNumber  string    `db:"room_number" json:"room_number"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
