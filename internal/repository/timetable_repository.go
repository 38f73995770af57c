package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

// TimetableRepository persists and serves generated timetable entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListByGroup returns a group's entries ordered by day and start time.
func (r *TimetableRepository) ListByGroup(ctx context.Context, groupID string) ([]models.TimetableEntry, error) {
	const query = `SELECT id, group_id, course_id, teacher_id, classroom_id, time_slot_id, day_of_week, start_time, end_time, course_code, course_name, teacher_name, room_number, created_at FROM timetable_entries WHERE group_id = $1 ORDER BY day_of_week, start_time`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, groupID); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// ReplaceForGroups swaps the stored schedule of the given groups for the new
// entries inside one transaction: an accepted run replaces whatever the groups
// had before.
func (r *TimetableRepository) ReplaceForGroups(ctx context.Context, tx *sqlx.Tx, groupIDs []string, entries []models.TimetableEntry) error {
	if len(groupIDs) == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM timetable_entries WHERE group_id = ANY($1)`, pq.Array(groupIDs)); err != nil {
		return fmt.Errorf("clear timetable entries: %w", err)
	}

	const insert = `INSERT INTO timetable_entries (id, group_id, course_id, teacher_id, classroom_id, time_slot_id, day_of_week, start_time, end_time, course_code, course_name, teacher_name, room_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	now := time.Now().UTC()
	for _, entry := range entries {
		createdAt := entry.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := tx.ExecContext(ctx, insert,
			entry.ID,
			entry.GroupID,
			entry.CourseID,
			entry.TeacherID,
			entry.ClassroomID,
			entry.TimeSlotID,
			entry.DayOfWeek,
			entry.StartTime,
			entry.EndTime,
			entry.CourseCode,
			entry.CourseName,
			entry.TeacherName,
			entry.RoomNumber,
			createdAt,
		); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}
	return nil
}
