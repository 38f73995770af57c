package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

func TestTimetableRepositoryListByGroup(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "group_id", "course_id", "teacher_id", "classroom_id", "time_slot_id", "day_of_week", "start_time", "end_time", "course_code", "course_name", "teacher_name", "room_number", "created_at"}).
		AddRow("e1", "g1", "c1", "t1", "r1", "s1", "MONDAY", "08:00", "09:00", "CS101", "Algorithms", "Dr. Rahmat", "101", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, group_id, course_id, teacher_id, classroom_id, time_slot_id, day_of_week, start_time, end_time, course_code, course_name, teacher_name, room_number, created_at FROM timetable_entries WHERE group_id = $1 ORDER BY day_of_week, start_time")).
		WithArgs("g1").
		WillReturnRows(rows)

	entries, err := repo.ListByGroup(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TimeOfDay(8*60), entries[0].StartTime)
	assert.Equal(t, "CS101", entries[0].CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceForGroups(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM timetable_entries").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO timetable_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	entries := []models.TimetableEntry{{
		ID: "e1", GroupID: "g1", CourseID: "c1", TeacherID: "t1",
		ClassroomID: "r1", TimeSlotID: "s1", DayOfWeek: "MONDAY",
		StartTime: models.TimeOfDay(8 * 60), EndTime: models.TimeOfDay(9 * 60),
		CourseCode: "CS101", CourseName: "Algorithms",
		TeacherName: "Dr. Rahmat", RoomNumber: "101",
	}}
	require.NoError(t, repo.ReplaceForGroups(context.Background(), tx, []string{"g1"}, entries))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceForGroupsNoGroups(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceForGroups(context.Background(), tx, nil, nil))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
