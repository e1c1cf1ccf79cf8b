package types

import "time"

// Post is a community board entry.
type Post struct {
	ID        int       `json:"id" db:"id"`
	AuthorID  int       `json:"author_id" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Category  string    `json:"category,omitempty" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// AuthorName is joined from the accounts table for display.
	AuthorName string `json:"author_name,omitempty" db:"author_name"`
}
