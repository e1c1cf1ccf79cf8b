package types

import "time"

// Student is the role extension row for accounts with the student role.
// It is keyed 1:1 to an Account and carries enrollment attributes.
type Student struct {
	ID        int    `json:"id" db:"id"`
	AccountID int    `json:"account_id" db:"account_id"`

	// NISN is the national student identifier.
	NISN string `json:"nisn" db:"nisn"`

	// ClassID references the class the student is enrolled in, if any.
	ClassID *int `json:"class_id,omitempty" db:"class_id"`

	EnrolledAt time.Time     `json:"enrolled_at" db:"enrolled_at"`
	Status     AccountStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}
