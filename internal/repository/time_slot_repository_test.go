package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimeSlotRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	rows := sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "is_break", "category", "created_at", "updated_at"}).
		AddRow("s1", "MONDAY", "08:00", "09:00", false, "", time.Now(), time.Now()).
		AddRow("s2", "MONDAY", "12:00", "13:00", true, "LUNCH", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day_of_week, start_time, end_time, is_break, category, created_at, updated_at FROM time_slots ORDER BY day_of_week, start_time")).
		WillReturnRows(rows)

	slots, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, models.TimeOfDay(8*60), slots[0].StartTime)
	assert.False(t, slots[0].IsBreak)
	assert.True(t, slots[1].IsBreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}
