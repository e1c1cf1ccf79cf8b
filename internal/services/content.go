package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mentara/apiserver/internal/storage"
	"github.com/mentara/apiserver/types"
)

// Generator is the AI vendor surface used by content generation.
type Generator interface {
	Chat(ctx context.Context, messages []types.ChatMessage) (string, error)
	Complete(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	SearchVideos(ctx context.Context, query string, limit int) ([]types.VideoResult, error)
}

// ContentRepository defines persistence operations for generated content.
type ContentRepository interface {
	Get(ctx context.Context, id int) (types.GeneratedContent, error)
	ListByAccount(ctx context.Context, accountID, limit int) ([]types.GeneratedContent, error)
	Create(ctx context.Context, content types.GeneratedContent) (types.GeneratedContent, error)
}

// ContentService passes prompts through to the vendor and records the
// results. Binary media goes to object storage under a uuid key.
type ContentService struct {
	generator Generator
	repo      ContentRepository
	media     *storage.Storage
}

func NewContentService(generator Generator, repo ContentRepository, media *storage.Storage) *ContentService {
	return &ContentService{
		generator: generator,
		repo:      repo,
		media:     media,
	}
}

// Tutor answers one chat turn. Conversations are stateless on the
// server; the client sends the whole history each time.
func (s *ContentService) Tutor(ctx context.Context, messages []types.ChatMessage) (string, error) {
	return s.generator.Chat(ctx, messages)
}

// GenerateLesson produces lesson text for a topic and records it.
func (s *ContentService) GenerateLesson(ctx context.Context, accountID int, topic string) (types.GeneratedContent, error) {
	return s.generateText(ctx, accountID, types.ContentLesson, topic,
		fmt.Sprintf("Write a structured lesson about %q for a school class. Include an introduction, key concepts, and a short summary.", topic))
}

// GenerateQuiz produces quiz questions for a topic and records them.
func (s *ContentService) GenerateQuiz(ctx context.Context, accountID int, topic string) (types.GeneratedContent, error) {
	return s.generateText(ctx, accountID, types.ContentQuiz, topic,
		fmt.Sprintf("Write ten multiple-choice quiz questions with answers about %q.", topic))
}

func (s *ContentService) generateText(ctx context.Context, accountID int, kind types.ContentKind, topic, prompt string) (types.GeneratedContent, error) {
	if strings.TrimSpace(topic) == "" {
		return types.GeneratedContent{}, fmt.Errorf("topic is required")
	}

	body, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		return types.GeneratedContent{}, fmt.Errorf("generate %s: %w", kind, err)
	}

	return s.repo.Create(ctx, types.GeneratedContent{
		AccountID: accountID,
		Kind:      kind,
		Prompt:    topic,
		Body:      body,
	})
}

// GenerateImage produces an illustration, uploads it, and records the
// media key.
func (s *ContentService) GenerateImage(ctx context.Context, accountID int, prompt string) (types.GeneratedContent, error) {
	if strings.TrimSpace(prompt) == "" {
		return types.GeneratedContent{}, fmt.Errorf("prompt is required")
	}

	data, err := s.generator.GenerateImage(ctx, prompt)
	if err != nil {
		return types.GeneratedContent{}, fmt.Errorf("generate image: %w", err)
	}

	key := fmt.Sprintf("generated/%s.png", uuid.NewString())
	if err := s.media.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
		return types.GeneratedContent{}, fmt.Errorf("store image: %w", err)
	}

	return s.repo.Create(ctx, types.GeneratedContent{
		AccountID: accountID,
		Kind:      types.ContentImage,
		Prompt:    prompt,
		MediaKey:  key,
	})
}

// SearchVideos proxies the vendor's video search.
func (s *ContentService) SearchVideos(ctx context.Context, query string, limit int) ([]types.VideoResult, error) {
	return s.generator.SearchVideos(ctx, query, limit)
}

// History lists an account's recent generations.
func (s *ContentService) History(ctx context.Context, accountID, limit int) ([]types.GeneratedContent, error) {
	return s.repo.ListByAccount(ctx, accountID, limit)
}
