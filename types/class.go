package types

import "time"

// Class is a group of students taught by one homeroom teacher.
type Class struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Grade     string    `json:"grade,omitempty" db:"grade"`
	TeacherID *int      `json:"teacher_id,omitempty" db:"teacher_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Subject is a taught discipline referenced by assignments and grades.
type Subject struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code,omitempty" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
