package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mentara/apiserver/types"
)

// StudentRepository handles persistence for student role extensions.
type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int) (types.Student, error) {
	const query = `
		SELECT id, account_id, nisn, class_id, enrolled_at, status, created_at, updated_at
		FROM students
		WHERE account_id = $1`
	return r.getOne(ctx, query, accountID)
}

func (r *StudentRepository) GetByID(ctx context.Context, id int) (types.Student, error) {
	const query = `
		SELECT id, account_id, nisn, class_id, enrolled_at, status, created_at, updated_at
		FROM students
		WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *StudentRepository) getOne(ctx context.Context, query string, arg any) (types.Student, error) {
	var student types.Student
	var classID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&student.ID,
		&student.AccountID,
		&student.NISN,
		&classID,
		&student.EnrolledAt,
		&student.Status,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, ErrNotFound
		}
		return types.Student{}, fmt.Errorf("query student: %w", err)
	}
	if classID.Valid {
		id := int(classID.Int64)
		student.ClassID = &id
	}
	return student, nil
}

func (r *StudentRepository) Create(ctx context.Context, student types.Student) (types.Student, error) {
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now
	if student.EnrolledAt.IsZero() {
		student.EnrolledAt = now
	}
	if student.Status == "" {
		student.Status = types.StatusActive
	}

	const query = `
		INSERT INTO students (account_id, nisn, class_id, enrolled_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		student.AccountID,
		student.NISN,
		nullableInt(student.ClassID),
		student.EnrolledAt,
		student.Status,
		student.CreatedAt,
		student.UpdatedAt,
	).Scan(&student.ID); err != nil {
		return types.Student{}, fmt.Errorf("insert student: %w", err)
	}
	return student, nil
}

// ListByClass returns the students enrolled in a class.
func (r *StudentRepository) ListByClass(ctx context.Context, classID int) ([]types.Student, error) {
	const query = `
		SELECT id, account_id, nisn, class_id, enrolled_at, status, created_at, updated_at
		FROM students
		WHERE class_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []types.Student
	for rows.Next() {
		var student types.Student
		var cid sql.NullInt64
		if err := rows.Scan(
			&student.ID,
			&student.AccountID,
			&student.NISN,
			&cid,
			&student.EnrolledAt,
			&student.Status,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if cid.Valid {
			id := int(cid.Int64)
			student.ClassID = &id
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
