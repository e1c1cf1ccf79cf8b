package types

import "time"

// Role identifies the authorization level of an account.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus identifies the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusInactive  AccountStatus = "inactive"
	StatusSuspended AccountStatus = "suspended"
)

// Account represents an authenticated identity in the system.
// It contains identity, role, and audit metadata.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the account's unique email address.
	Email string `json:"email" db:"email"`

	// FullName is the user's display name.
	FullName string `json:"full_name" db:"full_name"`

	// Role indicates the account's authorization level
	// within the platform (student, teacher, or admin).
	Role Role `json:"role" db:"role"`

	// Status is the lifecycle state of the account. Accounts are never
	// hard-deleted; deactivation happens through this field.
	Status AccountStatus `json:"status" db:"status"`

	// PasswordHash stores the bcrypt hash of the account's password.
	// This field is never exposed in API responses and is stripped
	// before an Account leaves the auth boundary.
	PasswordHash string `json:"-" db:"password_hash"`

	// Avatar is an object-storage key or URL for the profile picture.
	Avatar string `json:"avatar,omitempty" db:"avatar"`

	// Optional contact fields.
	Phone     string     `json:"phone,omitempty" db:"phone"`
	Address   string     `json:"address,omitempty" db:"address"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Gender    string     `json:"gender,omitempty" db:"gender"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Sanitized returns a copy of the account with the password hash removed.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}
