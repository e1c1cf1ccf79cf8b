package services

import "errors"

var (
	// ErrInvalidCredentials covers unknown username, inactive account,
	// and wrong password alike so the login path never reveals which
	// of them failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
)
