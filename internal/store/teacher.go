package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mentara/apiserver/types"
)

// TeacherRepository handles persistence for teacher role extensions.
type TeacherRepository struct {
	db *sql.DB
}

func NewTeacherRepository(db *sql.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) GetByAccountID(ctx context.Context, accountID int) (types.Teacher, error) {
	const query = `
		SELECT id, account_id, nip, specialization, status, created_at, updated_at
		FROM teachers
		WHERE account_id = $1`
	var teacher types.Teacher
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&teacher.ID,
		&teacher.AccountID,
		&teacher.NIP,
		&teacher.Specialization,
		&teacher.Status,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Teacher{}, ErrNotFound
		}
		return types.Teacher{}, fmt.Errorf("query teacher: %w", err)
	}
	return teacher, nil
}

func (r *TeacherRepository) Create(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	if teacher.Status == "" {
		teacher.Status = types.StatusActive
	}

	const query = `
		INSERT INTO teachers (account_id, nip, specialization, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		teacher.AccountID,
		teacher.NIP,
		teacher.Specialization,
		teacher.Status,
		teacher.CreatedAt,
		teacher.UpdatedAt,
	).Scan(&teacher.ID); err != nil {
		return types.Teacher{}, fmt.Errorf("insert teacher: %w", err)
	}
	return teacher, nil
}
