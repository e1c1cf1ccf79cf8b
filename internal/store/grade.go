package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mentara/apiserver/types"
)

// GradeRepository handles persistence for grades and assignments.
type GradeRepository struct {
	db *sql.DB
}

func NewGradeRepository(db *sql.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int) ([]types.Grade, error) {
	const query = `
		SELECT g.id, g.student_id, g.subject_id, g.assignment_id, g.score, g.created_at, s.name
		FROM grades g
		JOIN subjects s ON s.id = g.subject_id
		WHERE g.student_id = $1
		ORDER BY g.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	defer rows.Close()

	var grades []types.Grade
	for rows.Next() {
		var grade types.Grade
		var assignmentID sql.NullInt64
		if err := rows.Scan(
			&grade.ID,
			&grade.StudentID,
			&grade.SubjectID,
			&assignmentID,
			&grade.Score,
			&grade.CreatedAt,
			&grade.SubjectName,
		); err != nil {
			return nil, err
		}
		if assignmentID.Valid {
			id := int(assignmentID.Int64)
			grade.AssignmentID = &id
		}
		grades = append(grades, grade)
	}
	return grades, rows.Err()
}

func (r *GradeRepository) Create(ctx context.Context, grade types.Grade) (types.Grade, error) {
	grade.CreatedAt = time.Now()

	const query = `
		INSERT INTO grades (student_id, subject_id, assignment_id, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		grade.StudentID,
		grade.SubjectID,
		nullableInt(grade.AssignmentID),
		grade.Score,
		grade.CreatedAt,
	).Scan(&grade.ID); err != nil {
		return types.Grade{}, fmt.Errorf("insert grade: %w", err)
	}
	return grade, nil
}

// ClassAverage returns the number of graded students and the mean score
// across a class.
func (r *GradeRepository) ClassAverage(ctx context.Context, classID int) (int, float64, error) {
	const query = `
		SELECT COUNT(DISTINCT g.student_id), COALESCE(AVG(g.score), 0)
		FROM grades g
		JOIN students st ON st.id = g.student_id
		WHERE st.class_id = $1`
	var count int
	var average float64
	if err := r.db.QueryRowContext(ctx, query, classID).Scan(&count, &average); err != nil {
		return 0, 0, fmt.Errorf("class average: %w", err)
	}
	return count, average, nil
}

func (r *GradeRepository) ListAssignmentsByClass(ctx context.Context, classID int) ([]types.Assignment, error) {
	const query = `
		SELECT id, class_id, subject_id, teacher_id, title, body, due_at, created_at, updated_at
		FROM assignments
		WHERE class_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []types.Assignment
	for rows.Next() {
		var a types.Assignment
		var dueAt sql.NullTime
		if err := rows.Scan(
			&a.ID,
			&a.ClassID,
			&a.SubjectID,
			&a.TeacherID,
			&a.Title,
			&a.Body,
			&dueAt,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if dueAt.Valid {
			a.DueAt = &dueAt.Time
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *GradeRepository) CreateAssignment(ctx context.Context, a types.Assignment) (types.Assignment, error) {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	const query = `
		INSERT INTO assignments (class_id, subject_id, teacher_id, title, body, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		a.ClassID,
		a.SubjectID,
		a.TeacherID,
		a.Title,
		a.Body,
		nullableTime(a.DueAt),
		a.CreatedAt,
		a.UpdatedAt,
	).Scan(&a.ID); err != nil {
		return types.Assignment{}, fmt.Errorf("insert assignment: %w", err)
	}
	return a, nil
}
