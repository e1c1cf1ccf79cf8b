// Package authz gates client-side views on the role recorded in the
// local session. It is advisory only: the server re-checks roles
// against the account store on every privileged request.
package authz

import (
	"errors"

	"github.com/mentara/apiserver/internal/session"
	"github.com/mentara/apiserver/types"
)

var (
	// ErrUnauthenticated means no session exists; callers redirect to login.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrForbidden means the session's role is not in the allowed set.
	ErrForbidden = errors.New("access denied")
)

// RequireRole loads the session and checks its role against the allowed
// set. An empty set means any authenticated session is acceptable.
func RequireRole(manager *session.Manager, allowed ...types.Role) (*types.Session, error) {
	s, err := manager.Load()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrUnauthenticated
	}
	if len(allowed) == 0 {
		return s, nil
	}
	for _, role := range allowed {
		if s.Role == role {
			return s, nil
		}
	}
	return nil, ErrForbidden
}
