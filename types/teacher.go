package types

import "time"

// Teacher is the role extension row for accounts with the teacher role.
type Teacher struct {
	ID        int `json:"id" db:"id"`
	AccountID int `json:"account_id" db:"account_id"`

	// NIP is the employee identifier.
	NIP string `json:"nip" db:"nip"`

	Specialization string        `json:"specialization,omitempty" db:"specialization"`
	Status         AccountStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}
