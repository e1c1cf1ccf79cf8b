package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mentara/apiserver/internal/services"
	"github.com/mentara/apiserver/internal/store"
	"github.com/mentara/apiserver/types"
)

const testSecret = "test-secret"

type memAccountRepo struct {
	nextID   int
	accounts map[int]types.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{nextID: 1, accounts: make(map[int]types.Account)}
}

func (r *memAccountRepo) GetByID(ctx context.Context, id int) (types.Account, error) {
	account, ok := r.accounts[id]
	if !ok || account.Status != types.StatusActive {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (r *memAccountRepo) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username && account.Status == types.StatusActive {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (r *memAccountRepo) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email && account.Status == types.StatusActive {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (r *memAccountRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	account.ID = r.nextID
	r.nextID++
	r.accounts[account.ID] = account
	return account, nil
}

func (r *memAccountRepo) Update(ctx context.Context, account types.Account) (types.Account, error) {
	if _, ok := r.accounts[account.ID]; !ok {
		return types.Account{}, store.ErrNotFound
	}
	r.accounts[account.ID] = account
	return account, nil
}

func (r *memAccountRepo) UpdateStatus(ctx context.Context, id int, status types.AccountStatus) error {
	account, ok := r.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	account.Status = status
	r.accounts[id] = account
	return nil
}

type memStudentRepo struct {
	students map[int]types.Student
}

func (r *memStudentRepo) GetByAccountID(ctx context.Context, accountID int) (types.Student, error) {
	student, ok := r.students[accountID]
	if !ok {
		return types.Student{}, store.ErrNotFound
	}
	return student, nil
}

func (r *memStudentRepo) Create(ctx context.Context, student types.Student) (types.Student, error) {
	student.ID = len(r.students) + 1
	r.students[student.AccountID] = student
	return student, nil
}

type memTeacherRepo struct {
	teachers map[int]types.Teacher
}

func (r *memTeacherRepo) GetByAccountID(ctx context.Context, accountID int) (types.Teacher, error) {
	teacher, ok := r.teachers[accountID]
	if !ok {
		return types.Teacher{}, store.ErrNotFound
	}
	return teacher, nil
}

func (r *memTeacherRepo) Create(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	teacher.ID = len(r.teachers) + 1
	r.teachers[teacher.AccountID] = teacher
	return teacher, nil
}

func newTestRouter() (chi.Router, *services.AuthService) {
	authService := services.NewAuthService(
		newMemAccountRepo(),
		&memStudentRepo{students: make(map[int]types.Student)},
		&memTeacherRepo{teachers: make(map[int]types.Teacher)},
	)
	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		AuthRouter(r, authService, testSecret)
	})
	return r, authService
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerBody(role string) map[string]any {
	username := strings.ToLower(role) + "1"
	return map[string]any{
		"username":  username,
		"password":  "secret1",
		"full_name": "Test " + role,
		"email":     username + "@x.com",
		"role":      role,
	}
}

func TestRegisterLoginMe(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerBody("student"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if !created.Success || created.Account == nil || created.Token == "" {
		t.Fatalf("unexpected register response: %+v", created)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("register response leaks password material: %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "student1",
		"password": "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var logged AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &logged); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if logged.Token == "" || logged.Account == nil {
		t.Fatalf("unexpected login response: %+v", logged)
	}
	if !strings.Contains(logged.Message, "Test student") {
		t.Fatalf("expected welcome message with the full name, got %q", logged.Message)
	}

	rec = doJSON(t, router, http.MethodGet, "/auth/me", logged.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me types.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if me.Username != "student1" || me.Role != types.RoleStudent {
		t.Fatalf("unexpected me response: %+v", me)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerBody("student"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "student1",
		"password": "wrong12",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "nosuchuser",
		"password": "wrong12",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", rec.Code)
	}
}

func TestRegisterConflictAndValidation(t *testing.T) {
	router, _ := newTestRouter()

	if rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerBody("student")); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerBody("student")); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", rec.Code)
	}

	weak := registerBody("teacher")
	weak["password"] = "short"
	if rec := doJSON(t, router, http.MethodPost, "/auth/register", "", weak); rec.Code != http.StatusBadRequest {
		t.Fatalf("weak password: expected 400, got %d", rec.Code)
	}

	bad := registerBody("teacher")
	bad["role"] = "superuser"
	if rec := doJSON(t, router, http.MethodPost, "/auth/register", "", bad); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid role: expected 400, got %d", rec.Code)
	}

	missing := registerBody("teacher")
	missing["username"] = "  "
	if rec := doJSON(t, router, http.MethodPost, "/auth/register", "", missing); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing username: expected 400, got %d", rec.Code)
	}
}

func TestMeRequiresValidToken(t *testing.T) {
	router, _ := newTestRouter()

	if rec := doJSON(t, router, http.MethodGet, "/auth/me", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodGet, "/auth/me", "not-a-jwt", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}

	forged, err := issueToken(1, []byte("other-secret"), defaultTokenTTL)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if rec := doJSON(t, router, http.MethodGet, "/auth/me", forged, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: expected 401, got %d", rec.Code)
	}
}

func TestRequireRoleMiddleware(t *testing.T) {
	router, authService := newTestRouter()

	staffOnly := RequireRole(authService, types.RoleTeacher, types.RoleAdmin)
	router.With(RequireAuth(testSecret), staffOnly).
		Get("/staff", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

	tokenFor := func(role string) string {
		rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerBody(role))
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s: expected 201, got %d: %s", role, rec.Code, rec.Body.String())
		}
		var resp AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.Token
	}

	studentToken := tokenFor("student")
	teacherToken := tokenFor("teacher")

	if rec := doJSON(t, router, http.MethodGet, "/staff", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodGet, "/staff", studentToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("student: expected 403, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodGet, "/staff", teacherToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("teacher: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTokenSubjectRoundTrip(t *testing.T) {
	token, err := issueToken(42, []byte(testSecret), defaultTokenTTL)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	subject, err := parseTokenSubject(token, []byte(testSecret))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if subject != fmt.Sprintf("%d", 42) {
		t.Fatalf("unexpected subject %q", subject)
	}
}
