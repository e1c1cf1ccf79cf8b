package types

import "time"

// Assignment is work handed out to a class for a subject.
type Assignment struct {
	ID        int        `json:"id" db:"id"`
	ClassID   int        `json:"class_id" db:"class_id"`
	SubjectID int        `json:"subject_id" db:"subject_id"`
	TeacherID int        `json:"teacher_id" db:"teacher_id"`
	Title     string     `json:"title" db:"title"`
	Body      string     `json:"body,omitempty" db:"body"`
	DueAt     *time.Time `json:"due_at,omitempty" db:"due_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Grade is one score a student received for a subject.
type Grade struct {
	ID           int       `json:"id" db:"id"`
	StudentID    int       `json:"student_id" db:"student_id"`
	SubjectID    int       `json:"subject_id" db:"subject_id"`
	AssignmentID *int      `json:"assignment_id,omitempty" db:"assignment_id"`
	Score        float64   `json:"score" db:"score"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// SubjectName is joined from the subjects table for display.
	SubjectName string `json:"subject_name,omitempty" db:"subject_name"`
}

// SubjectSummary aggregates a student's grades for one subject.
type SubjectSummary struct {
	SubjectID   int     `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Average     float64 `json:"average"`
	Count       int     `json:"count"`
}

// StudentReport is the analytics view for one student.
type StudentReport struct {
	StudentID int              `json:"student_id"`
	Overall   float64          `json:"overall"`
	Subjects  []SubjectSummary `json:"subjects"`
}

// ClassOverview is the analytics view a teacher sees for one class.
type ClassOverview struct {
	ClassID      int     `json:"class_id"`
	StudentCount int     `json:"student_count"`
	Average      float64 `json:"average"`
}
