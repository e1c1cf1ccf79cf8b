package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mentara/apiserver/types"
)

// ClassRepository handles persistence for classes and subjects.
type ClassRepository struct {
	db *sql.DB
}

func NewClassRepository(db *sql.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) Get(ctx context.Context, id int) (types.Class, error) {
	const query = `
		SELECT id, name, grade, teacher_id, created_at, updated_at
		FROM classes
		WHERE id = $1`
	var class types.Class
	var teacherID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&class.ID,
		&class.Name,
		&class.Grade,
		&teacherID,
		&class.CreatedAt,
		&class.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Class{}, ErrNotFound
		}
		return types.Class{}, fmt.Errorf("query class: %w", err)
	}
	if teacherID.Valid {
		id := int(teacherID.Int64)
		class.TeacherID = &id
	}
	return class, nil
}

func (r *ClassRepository) List(ctx context.Context) ([]types.Class, error) {
	const query = `
		SELECT id, name, grade, teacher_id, created_at, updated_at
		FROM classes
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []types.Class
	for rows.Next() {
		var class types.Class
		var teacherID sql.NullInt64
		if err := rows.Scan(
			&class.ID,
			&class.Name,
			&class.Grade,
			&teacherID,
			&class.CreatedAt,
			&class.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if teacherID.Valid {
			id := int(teacherID.Int64)
			class.TeacherID = &id
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

// ListByTeacher returns the classes a teacher is responsible for.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int) ([]types.Class, error) {
	const query = `
		SELECT id, name, grade, teacher_id, created_at, updated_at
		FROM classes
		WHERE teacher_id = $1
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []types.Class
	for rows.Next() {
		var class types.Class
		var tid sql.NullInt64
		if err := rows.Scan(
			&class.ID,
			&class.Name,
			&class.Grade,
			&tid,
			&class.CreatedAt,
			&class.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if tid.Valid {
			id := int(tid.Int64)
			class.TeacherID = &id
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

func (r *ClassRepository) ListSubjects(ctx context.Context) ([]types.Subject, error) {
	const query = `
		SELECT id, name, code, created_at
		FROM subjects
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []types.Subject
	for rows.Next() {
		var subject types.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Code, &subject.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}
