package session

import (
	"strings"
	"testing"

	"github.com/mentara/apiserver/types"
	"github.com/spf13/afero"
)

func newTestManager() *Manager {
	return NewManager(afero.NewMemMapFs(), "/home/user/.config/mentara/session.json")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := newTestManager()

	saved := types.Session{
		ID:       7,
		Username: "alice",
		FullName: "Alice A",
		Role:     types.RoleStudent,
		Email:    "alice@x.com",
		Avatar:   "avatars/7.png",
	}
	if err := m.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a session")
	}
	if *loaded != saved {
		t.Fatalf("loaded session %+v does not match saved %+v", *loaded, saved)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected IsAuthenticated after save")
	}
}

func TestLoadAbsentSlot(t *testing.T) {
	m := newTestManager()

	s, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil session, got %+v", s)
	}
	if m.IsAuthenticated() {
		t.Fatal("expected IsAuthenticated to be false")
	}
}

func TestLoadMalformedSlot(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.config/mentara/session.json"
	if err := afero.WriteFile(fs, path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := NewManager(fs, path)

	s, err := m.Load()
	if err != nil {
		t.Fatalf("malformed slot should not error, got %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil session for malformed slot, got %+v", s)
	}
}

func TestClear(t *testing.T) {
	m := newTestManager()

	if err := m.Clear(); err != nil {
		t.Fatalf("clear on empty slot: %v", err)
	}

	if err := m.Save(types.Session{ID: 1, Username: "bob", Role: types.RoleTeacher}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	s, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil session after clear")
	}
	if m.IsAuthenticated() {
		t.Fatal("expected IsAuthenticated to be false after clear")
	}
}

func TestSessionNeverContainsPasswordHash(t *testing.T) {
	account := types.Account{
		ID:           3,
		Username:     "carol",
		FullName:     "Carol C",
		Role:         types.RoleAdmin,
		Email:        "carol@x.com",
		PasswordHash: "$2a$12$secret",
	}

	m := newTestManager()
	if err := m.Save(types.NewSession(account.Sanitized(), "token")); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if string(raw) == "" {
		t.Fatal("expected slot content")
	}
	for _, needle := range []string{"password", "hash", "$2a$"} {
		if strings.Contains(string(raw), needle) {
			t.Fatalf("session slot leaked %q: %s", needle, raw)
		}
	}
}
