package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mentara/apiserver/types"
)

// ContentRepository handles persistence for generated content records.
type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Get(ctx context.Context, id int) (types.GeneratedContent, error) {
	const query = `
		SELECT id, account_id, kind, prompt, body, media_key, created_at
		FROM generated_content
		WHERE id = $1`
	var content types.GeneratedContent
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&content.ID,
		&content.AccountID,
		&content.Kind,
		&content.Prompt,
		&content.Body,
		&content.MediaKey,
		&content.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.GeneratedContent{}, ErrNotFound
		}
		return types.GeneratedContent{}, fmt.Errorf("query content: %w", err)
	}
	return content, nil
}

func (r *ContentRepository) ListByAccount(ctx context.Context, accountID, limit int) ([]types.GeneratedContent, error) {
	if limit < 1 {
		limit = 20
	}

	const query = `
		SELECT id, account_id, kind, prompt, body, media_key, created_at
		FROM generated_content
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var contents []types.GeneratedContent
	for rows.Next() {
		var content types.GeneratedContent
		if err := rows.Scan(
			&content.ID,
			&content.AccountID,
			&content.Kind,
			&content.Prompt,
			&content.Body,
			&content.MediaKey,
			&content.CreatedAt,
		); err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

func (r *ContentRepository) Create(ctx context.Context, content types.GeneratedContent) (types.GeneratedContent, error) {
	content.CreatedAt = time.Now()

	const query = `
		INSERT INTO generated_content (account_id, kind, prompt, body, media_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		content.AccountID,
		content.Kind,
		content.Prompt,
		content.Body,
		content.MediaKey,
		content.CreatedAt,
	).Scan(&content.ID); err != nil {
		return types.GeneratedContent{}, fmt.Errorf("insert content: %w", err)
	}
	return content, nil
}
