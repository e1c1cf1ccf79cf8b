package types

// Session is the client-held projection of an authenticated account.
// It is an unauthenticated cache: privileged operations must re-verify
// against the account store rather than trust these fields.
//
// A Session never carries the password hash. It is built only from
// sanitized accounts.
type Session struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`

	// Token is the API bearer token issued at login. It expires
	// server-side even though the session file itself does not.
	Token string `json:"token,omitempty"`
}

// NewSession projects the non-sensitive subset of an account.
func NewSession(account Account, token string) Session {
	return Session{
		ID:       account.ID,
		Username: account.Username,
		FullName: account.FullName,
		Role:     account.Role,
		Email:    account.Email,
		Avatar:   account.Avatar,
		Token:    token,
	}
}
