package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mentara/apiserver/internal/services"
	"github.com/mentara/apiserver/internal/store"
	"github.com/mentara/apiserver/types"
)

type memNotificationRepo struct {
	notifications []types.Notification
}

func (r *memNotificationRepo) ListByAccount(ctx context.Context, accountID int, limit int) ([]types.Notification, error) {
	var out []types.Notification
	for _, n := range r.notifications {
		if n.AccountID == accountID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) Create(ctx context.Context, n types.Notification) (types.Notification, error) {
	n.ID = len(r.notifications) + 1
	r.notifications = append(r.notifications, n)
	return n, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id, accountID int) error {
	for i, n := range r.notifications {
		if n.ID == id && n.AccountID == accountID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

func newNotificationTestRouter() (chi.Router, *memNotificationRepo) {
	authService := services.NewAuthService(
		newMemAccountRepo(),
		&memStudentRepo{students: make(map[int]types.Student)},
		&memTeacherRepo{teachers: make(map[int]types.Teacher)},
	)
	repo := &memNotificationRepo{}
	notificationService := services.NewNotificationService(repo, nil)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		AuthRouter(r, authService, testSecret)
	})
	r.Route("/notifications", func(r chi.Router) {
		NotificationRouter(r, notificationService, authService, RequireAuth(testSecret))
	})
	return r, repo
}

func TestSendNotificationStaffOnly(t *testing.T) {
	router, repo := newNotificationTestRouter()

	register := func(role string) (string, int) {
		rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerBody(role))
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s: expected 201, got %d: %s", role, rec.Code, rec.Body.String())
		}
		var resp AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.Token, resp.Account.ID
	}

	studentToken, studentID := register("student")
	teacherToken, _ := register("teacher")

	payload := map[string]any{
		"account_id": studentID,
		"title":      "Class moved",
		"body":       "Math moved to room 2B tomorrow.",
	}

	if rec := doJSON(t, router, http.MethodPost, "/notifications/", "", payload); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodPost, "/notifications/", studentToken, payload); rec.Code != http.StatusForbidden {
		t.Fatalf("student: expected 403, got %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/notifications/", teacherToken, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("teacher: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.notifications) != 1 || repo.notifications[0].AccountID != studentID {
		t.Fatalf("unexpected stored notifications: %+v", repo.notifications)
	}

	rec = doJSON(t, router, http.MethodGet, "/notifications/", studentToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var listed []types.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "Class moved" {
		t.Fatalf("unexpected list: %+v", listed)
	}
}

func TestSendNotificationValidation(t *testing.T) {
	router, _ := newNotificationTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerBody("teacher"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, payload := range []map[string]any{
		{"account_id": 0, "title": "t", "body": "b"},
		{"account_id": 1, "title": " ", "body": "b"},
		{"account_id": 1, "title": "t", "body": ""},
	} {
		if rec := doJSON(t, router, http.MethodPost, "/notifications/", resp.Token, payload); rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %v: expected 400, got %d", payload, rec.Code)
		}
	}
}
