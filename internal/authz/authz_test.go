package authz

import (
	"errors"
	"testing"

	"github.com/mentara/apiserver/internal/session"
	"github.com/mentara/apiserver/types"
	"github.com/spf13/afero"
)

func managerWithSession(t *testing.T, s *types.Session) *session.Manager {
	t.Helper()
	m := session.NewManager(afero.NewMemMapFs(), "/tmp/session.json")
	if s != nil {
		if err := m.Save(*s); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}
	return m
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	m := managerWithSession(t, nil)

	_, err := RequireRole(m, types.RoleTeacher)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRoleForbidden(t *testing.T) {
	m := managerWithSession(t, &types.Session{ID: 1, Username: "alice", Role: types.RoleStudent})

	_, err := RequireRole(m, types.RoleTeacher)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRoleAllowed(t *testing.T) {
	m := managerWithSession(t, &types.Session{ID: 2, Username: "bob", Role: types.RoleTeacher})

	s, err := RequireRole(m, types.RoleStudent, types.RoleTeacher)
	if err != nil {
		t.Fatalf("expected access, got %v", err)
	}
	if s.Username != "bob" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestRequireRoleAnyAuthenticated(t *testing.T) {
	m := managerWithSession(t, &types.Session{ID: 3, Username: "carol", Role: types.RoleAdmin})

	s, err := RequireRole(m)
	if err != nil {
		t.Fatalf("expected access with empty role set, got %v", err)
	}
	if s.Role != types.RoleAdmin {
		t.Fatalf("unexpected role: %s", s.Role)
	}
}
