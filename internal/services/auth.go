package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"
	"github.com/mentara/apiserver/internal/store"
	"github.com/mentara/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

const (
	passwordMinLength = 6
	passwordHashCost  = 12
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id int) (types.Account, error)
	GetByUsername(ctx context.Context, username string) (types.Account, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	Update(ctx context.Context, account types.Account) (types.Account, error)
	UpdateStatus(ctx context.Context, id int, status types.AccountStatus) error
}

// StudentRepository defines persistence operations for student extensions.
type StudentRepository interface {
	GetByAccountID(ctx context.Context, accountID int) (types.Student, error)
	Create(ctx context.Context, student types.Student) (types.Student, error)
}

// TeacherRepository defines persistence operations for teacher extensions.
type TeacherRepository interface {
	GetByAccountID(ctx context.Context, accountID int) (types.Teacher, error)
	Create(ctx context.Context, teacher types.Teacher) (types.Teacher, error)
}

// AuthService implements credential verification, signup, and account
// lookup. Accounts leaving this service have the password hash stripped.
type AuthService struct {
	accounts AccountRepository
	students StudentRepository
	teachers TeacherRepository
	hashCost int
}

func NewAuthService(accounts AccountRepository, students StudentRepository, teachers TeacherRepository) *AuthService {
	return &AuthService{
		accounts: accounts,
		students: students,
		teachers: teachers,
		hashCost: passwordHashCost,
	}
}

// RegisterInput carries the signup form fields. NISN and NIP are the
// role-specific identifiers for students and teachers.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Role     types.Role
	Phone    string
	NISN     string
	ClassID  *int
	NIP      string
}

// RegisterResult reports a successful signup. ExtensionWarning is set
// when the role extension insert failed: the account still exists and
// the caller decides whether to surface the inconsistency.
type RegisterResult struct {
	Account          types.Account
	Message          string
	ExtensionWarning error
}

// Register validates the candidate, hashes the password, and creates the
// account plus its role extension. Validation order: duplicate username,
// duplicate email, then password strength; nothing is written before all
// three pass.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	username := strings.TrimSpace(input.Username)

	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return RegisterResult{}, ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return RegisterResult{}, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("check email: %w", err)
	}

	if len(input.Password) < passwordMinLength {
		return RegisterResult{}, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, types.Account{
		Username:     username,
		Email:        input.Email,
		FullName:     input.FullName,
		Role:         input.Role,
		Status:       types.StatusActive,
		PasswordHash: string(hashed),
		Phone:        input.Phone,
	})
	if err != nil {
		// Two signups can pass the pre-check and race on a unique
		// index; the store rejects the loser and we report it the
		// same way as the pre-check would have.
		return RegisterResult{}, mapCreateError(err)
	}

	warning := s.createExtension(ctx, account, input)
	if warning != nil {
		log.Printf("register: extension insert for account %d failed: %v", account.ID, warning)
	}

	return RegisterResult{
		Account:          account.Sanitized(),
		Message:          fmt.Sprintf("Account for %s created successfully", account.FullName),
		ExtensionWarning: warning,
	}, nil
}

// mapCreateError distinguishes a lost duplicate race from a real store
// failure. Only a postgres unique violation becomes a duplicate error;
// the violated constraint says which field collided.
func mapCreateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if strings.Contains(pqErr.Constraint, "email") {
			return ErrDuplicateEmail
		}
		return ErrDuplicateUsername
	}
	return fmt.Errorf("create account: %w", err)
}

// createExtension inserts the role-specific row. A failure here never
// fails the registration: the account is primary, the extension is
// best-effort.
func (s *AuthService) createExtension(ctx context.Context, account types.Account, input RegisterInput) error {
	switch account.Role {
	case types.RoleStudent:
		if strings.TrimSpace(input.NISN) == "" {
			return nil
		}
		_, err := s.students.Create(ctx, types.Student{
			AccountID: account.ID,
			NISN:      input.NISN,
			ClassID:   input.ClassID,
		})
		if err != nil {
			return fmt.Errorf("create student extension: %w", err)
		}
	case types.RoleTeacher:
		if strings.TrimSpace(input.NIP) == "" {
			return nil
		}
		_, err := s.teachers.Create(ctx, types.Teacher{
			AccountID: account.ID,
			NIP:       input.NIP,
		})
		if err != nil {
			return fmt.Errorf("create teacher extension: %w", err)
		}
	}
	return nil
}

// Authenticate verifies a username/password pair against the account
// store. All failure modes collapse into ErrInvalidCredentials. The
// returned account is sanitized and the message greets the user by name.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (types.Account, string, error) {
	account, err := s.accounts.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, "", ErrInvalidCredentials
		}
		return types.Account{}, "", fmt.Errorf("look up account: %w", err)
	}

	if account.Status != types.StatusActive {
		return types.Account{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return types.Account{}, "", ErrInvalidCredentials
	}

	return account.Sanitized(), fmt.Sprintf("Welcome back, %s!", account.FullName), nil
}

// GetByID returns a sanitized active account. Handlers use it to
// re-verify the caller rather than trust client-held session state.
func (s *AuthService) GetByID(ctx context.Context, id int) (types.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return types.Account{}, err
	}
	return account.Sanitized(), nil
}
