package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

// StudentGroupRepository loads cohorts and their course assignments.
type StudentGroupRepository struct {
	db *sqlx.DB
}

// NewStudentGroupRepository creates a new student group repository.
func NewStudentGroupRepository(db *sqlx.DB) *StudentGroupRepository {
	return &StudentGroupRepository{db: db}
}

// List returns groups matching the filter, ordered by name.
func (r *StudentGroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.StudentGroup, error) {
	base := "SELECT id, name, department, year, semester, created_at, updated_at FROM student_groups WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Semester > 0 {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY name"

	var groups []models.StudentGroup
	if err := r.db.SelectContext(ctx, &groups, base, args...); err != nil {
		return nil, fmt.Errorf("list student groups: %w", err)
	}
	return groups, nil
}

// FindByID loads a group by id.
func (r *StudentGroupRepository) FindByID(ctx context.Context, id string) (*models.StudentGroup, error) {
	const query = `SELECT id, name, department, year, semester, created_at, updated_at FROM student_groups WHERE id = $1`
	var group models.StudentGroup
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListAssignments returns every group-to-course assignment row.
func (r *StudentGroupRepository) ListAssignments(ctx context.Context) ([]models.GroupCourse, error) {
	const query = `SELECT id, group_id, course_id, created_at FROM group_courses ORDER BY group_id, course_id`
	var assignments []models.GroupCourse
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list group course assignments: %w", err)
	}
	return assignments, nil
}
