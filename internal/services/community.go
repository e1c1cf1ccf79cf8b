package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mentara/apiserver/types"
)

// PostRepository defines persistence operations for board posts.
type PostRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.Post, int, error)
	Get(ctx context.Context, id int) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id int) error
}

// ErrNotPostAuthor is returned when someone other than the author or an
// admin tries to delete a post.
var ErrNotPostAuthor = errors.New("only the author or an admin can delete a post")

// CommunityService encapsulates discussion board use-cases.
type CommunityService struct {
	posts PostRepository
}

func NewCommunityService(posts PostRepository) *CommunityService {
	return &CommunityService{posts: posts}
}

func (s *CommunityService) List(ctx context.Context, offset, limit int) ([]types.Post, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.posts.List(ctx, offset, limit)
}

func (s *CommunityService) Get(ctx context.Context, id int) (types.Post, error) {
	return s.posts.Get(ctx, id)
}

func (s *CommunityService) Create(ctx context.Context, authorID int, title, body, category string) (types.Post, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return types.Post{}, errors.New("title is required")
	}
	if body == "" {
		return types.Post{}, errors.New("body is required")
	}

	return s.posts.Create(ctx, types.Post{
		AuthorID: authorID,
		Title:    title,
		Body:     body,
		Category: strings.TrimSpace(category),
	})
}

// Delete removes a post after checking the caller owns it or is admin.
func (s *CommunityService) Delete(ctx context.Context, id int, caller types.Account) error {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.ID && caller.Role != types.RoleAdmin {
		return ErrNotPostAuthor
	}
	return s.posts.Delete(ctx, id)
}
