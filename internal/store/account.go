package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mentara/apiserver/types"
)

// AccountRepository handles persistence for accounts.
//
// The password hash stays inside the store/services boundary: rows are
// returned with the hash populated and callers above the auth services
// receive sanitized copies only.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, username, email, full_name, role, status, password_hash, avatar, phone, address, birth_date, gender, created_at, updated_at`

func (r *AccountRepository) GetByID(ctx context.Context, id int) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND status = 'active'`
	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE username = $1 AND status = 'active'`
	return r.getOne(ctx, query, username)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 AND status = 'active'`
	return r.getOne(ctx, query, email)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (types.Account, error) {
	var account types.Account
	var birthDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.FullName,
		&account.Role,
		&account.Status,
		&account.PasswordHash,
		&account.Avatar,
		&account.Phone,
		&account.Address,
		&birthDate,
		&account.Gender,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, fmt.Errorf("query account: %w", err)
	}
	if birthDate.Valid {
		account.BirthDate = &birthDate.Time
	}
	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.Status == "" {
		account.Status = types.StatusActive
	}

	const query = `
		INSERT INTO accounts (username, email, full_name, role, status, password_hash, avatar, phone, address, birth_date, gender, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Username,
		account.Email,
		account.FullName,
		account.Role,
		account.Status,
		account.PasswordHash,
		account.Avatar,
		account.Phone,
		account.Address,
		nullableTime(account.BirthDate),
		account.Gender,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID); err != nil {
		return types.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) Update(ctx context.Context, account types.Account) (types.Account, error) {
	account.UpdatedAt = time.Now()

	const query = `
		UPDATE accounts
		SET email = $1,
			full_name = $2,
			avatar = $3,
			phone = $4,
			address = $5,
			birth_date = $6,
			gender = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		account.Email,
		account.FullName,
		account.Avatar,
		account.Phone,
		account.Address,
		nullableTime(account.BirthDate),
		account.Gender,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return types.Account{}, fmt.Errorf("update account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Account{}, err
	}
	if affected == 0 {
		return types.Account{}, ErrNotFound
	}
	return account, nil
}

// UpdateStatus soft-deactivates or reactivates an account. Accounts are
// never hard-deleted.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id int, status types.AccountStatus) error {
	const query = `
		UPDATE accounts
		SET status = $1, updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
