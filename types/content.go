package types

import "time"

// ContentKind identifies what the AI vendor produced.
type ContentKind string

const (
	ContentLesson ContentKind = "lesson"
	ContentQuiz   ContentKind = "quiz"
	ContentImage  ContentKind = "image"
	ContentVideo  ContentKind = "video"
)

// GeneratedContent records one vendor generation result. Text content is
// stored inline; binary media lives in object storage under MediaKey.
type GeneratedContent struct {
	ID        int         `json:"id" db:"id"`
	AccountID int         `json:"account_id" db:"account_id"`
	Kind      ContentKind `json:"kind" db:"kind"`
	Prompt    string      `json:"prompt" db:"prompt"`
	Body      string      `json:"body,omitempty" db:"body"`
	MediaKey  string      `json:"media_key,omitempty" db:"media_key"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// ChatMessage is one turn in a tutor conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// VideoResult is one hit from the vendor's video search.
type VideoResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description,omitempty"`
}
