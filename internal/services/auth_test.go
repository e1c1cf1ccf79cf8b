package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/mentara/apiserver/internal/store"
	"github.com/mentara/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	nextID    int
	accounts  map[int]types.Account
	createErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, accounts: make(map[int]types.Account)}
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int) (types.Account, error) {
	account, ok := r.accounts[id]
	if !ok || account.Status != types.StatusActive {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username && account.Status == types.StatusActive {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email && account.Status == types.StatusActive {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (r *fakeAccountRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	if r.createErr != nil {
		return types.Account{}, r.createErr
	}
	for _, existing := range r.accounts {
		if existing.Username == account.Username {
			return types.Account{}, &pq.Error{Code: uniqueViolation, Constraint: "accounts_username_key"}
		}
	}
	account.ID = r.nextID
	r.nextID++
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account types.Account) (types.Account, error) {
	if _, ok := r.accounts[account.ID]; !ok {
		return types.Account{}, store.ErrNotFound
	}
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) UpdateStatus(ctx context.Context, id int, status types.AccountStatus) error {
	account, ok := r.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	account.Status = status
	r.accounts[id] = account
	return nil
}

type fakeStudentRepo struct {
	students map[int]types.Student
	failNext bool
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[int]types.Student)}
}

func (r *fakeStudentRepo) GetByAccountID(ctx context.Context, accountID int) (types.Student, error) {
	student, ok := r.students[accountID]
	if !ok {
		return types.Student{}, store.ErrNotFound
	}
	return student, nil
}

func (r *fakeStudentRepo) Create(ctx context.Context, student types.Student) (types.Student, error) {
	if r.failNext {
		r.failNext = false
		return types.Student{}, errors.New("insert failed")
	}
	student.ID = len(r.students) + 1
	r.students[student.AccountID] = student
	return student, nil
}

type fakeTeacherRepo struct {
	teachers map[int]types.Teacher
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{teachers: make(map[int]types.Teacher)}
}

func (r *fakeTeacherRepo) GetByAccountID(ctx context.Context, accountID int) (types.Teacher, error) {
	teacher, ok := r.teachers[accountID]
	if !ok {
		return types.Teacher{}, store.ErrNotFound
	}
	return teacher, nil
}

func (r *fakeTeacherRepo) Create(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	teacher.ID = len(r.teachers) + 1
	r.teachers[teacher.AccountID] = teacher
	return teacher, nil
}

func newTestAuthService() (*AuthService, *fakeAccountRepo, *fakeStudentRepo, *fakeTeacherRepo) {
	accounts := newFakeAccountRepo()
	students := newFakeStudentRepo()
	teachers := newFakeTeacherRepo()
	service := NewAuthService(accounts, students, teachers)
	service.hashCost = bcrypt.MinCost
	return service, accounts, students, teachers
}

func studentInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Password: "secret1",
		FullName: "Alice A",
		Email:    "alice@x.com",
		Role:     types.RoleStudent,
		NISN:     "123",
	}
}

func TestRegisterThenAuthenticate(t *testing.T) {
	service, _, students, _ := newTestAuthService()
	ctx := context.Background()

	result, err := service.Register(ctx, studentInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Account.ID == 0 {
		t.Fatal("expected account id to be set")
	}
	if result.Account.PasswordHash != "" {
		t.Fatal("register leaked the password hash")
	}
	if result.ExtensionWarning != nil {
		t.Fatalf("unexpected extension warning: %v", result.ExtensionWarning)
	}
	if _, ok := students.students[result.Account.ID]; !ok {
		t.Fatal("expected student extension row")
	}

	account, message, err := service.Authenticate(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if account.Username != "alice" || account.FullName != "Alice A" || account.Role != types.RoleStudent {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.PasswordHash != "" {
		t.Fatal("authenticate leaked the password hash")
	}
	if !strings.Contains(message, "Alice A") {
		t.Fatalf("welcome message should contain the full name, got %q", message)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, accounts, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Register(ctx, studentInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	before := len(accounts.accounts)

	second := studentInput()
	second.Password = "other1"
	second.FullName = "Alice B"
	second.Email = "alice2@x.com"
	_, err := service.Register(ctx, second)
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if len(accounts.accounts) != before {
		t.Fatal("duplicate register created an account")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Register(ctx, studentInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	second := studentInput()
	second.Username = "alice2"
	_, err := service.Register(ctx, second)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegisterCreateRaceMapsByConstraint(t *testing.T) {
	service, accounts, _, _ := newTestAuthService()
	ctx := context.Background()

	accounts.createErr = &pq.Error{Code: uniqueViolation, Constraint: "accounts_username_key"}
	if _, err := service.Register(ctx, studentInput()); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername for username race, got %v", err)
	}

	accounts.createErr = &pq.Error{Code: uniqueViolation, Constraint: "accounts_email_key"}
	if _, err := service.Register(ctx, studentInput()); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail for email race, got %v", err)
	}
}

func TestRegisterCreateStoreFailureIsNotDuplicate(t *testing.T) {
	service, accounts, _, _ := newTestAuthService()

	cause := errors.New("connection reset")
	accounts.createErr = cause
	_, err := service.Register(context.Background(), studentInput())
	if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("store failure must not masquerade as a duplicate, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected the store error to be wrapped, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	service, accounts, _, _ := newTestAuthService()

	input := studentInput()
	input.Password = "short"
	_, err := service.Register(context.Background(), input)
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if len(accounts.accounts) != 0 {
		t.Fatal("weak password must be rejected before any store mutation")
	}
}

func TestStoredHashIsNotPlaintext(t *testing.T) {
	service, accounts, _, _ := newTestAuthService()

	result, err := service.Register(context.Background(), studentInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	stored := accounts.accounts[result.Account.ID]
	if stored.PasswordHash == "secret1" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not verify the password: %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	service, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Register(ctx, studentInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, password := range []string{"secret2", "Secret1", "secret1 ", "wrong"} {
		if _, _, err := service.Authenticate(ctx, "alice", password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("password %q: expected ErrInvalidCredentials, got %v", password, err)
		}
	}
}

func TestAuthenticateUnknownUserSameError(t *testing.T) {
	service, _, _, _ := newTestAuthService()

	_, _, err := service.Authenticate(context.Background(), "ghost", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	service, accounts, _, _ := newTestAuthService()
	ctx := context.Background()

	result, err := service.Register(ctx, studentInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := accounts.UpdateStatus(ctx, result.Account.ID, types.StatusSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	if _, _, err := service.Authenticate(ctx, "alice", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for suspended account, got %v", err)
	}
}

func TestRegisterExtensionFailureIsNonFatal(t *testing.T) {
	service, accounts, students, _ := newTestAuthService()
	students.failNext = true

	result, err := service.Register(context.Background(), studentInput())
	if err != nil {
		t.Fatalf("register should succeed despite extension failure, got %v", err)
	}
	if result.ExtensionWarning == nil {
		t.Fatal("expected an extension warning")
	}
	if _, ok := accounts.accounts[result.Account.ID]; !ok {
		t.Fatal("account row should exist")
	}
	if len(students.students) != 0 {
		t.Fatal("student extension should not exist")
	}
}

func TestRegisterTeacherExtension(t *testing.T) {
	service, _, _, teachers := newTestAuthService()

	result, err := service.Register(context.Background(), RegisterInput{
		Username: "bob",
		Password: "secret1",
		FullName: "Bob B",
		Email:    "bob@x.com",
		Role:     types.RoleTeacher,
		NIP:      "emp-42",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	teacher, ok := teachers.teachers[result.Account.ID]
	if !ok {
		t.Fatal("expected teacher extension row")
	}
	if teacher.NIP != "emp-42" {
		t.Fatalf("unexpected NIP: %q", teacher.NIP)
	}
}

func TestRegisterSkipsExtensionWithoutIdentifier(t *testing.T) {
	service, _, students, _ := newTestAuthService()

	input := studentInput()
	input.NISN = ""
	result, err := service.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.ExtensionWarning != nil {
		t.Fatalf("missing identifier is not a warning, got %v", result.ExtensionWarning)
	}
	if len(students.students) != 0 {
		t.Fatal("no extension row expected without an identifier")
	}
}
