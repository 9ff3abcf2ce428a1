// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements persistence for posts on top of database/sql.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"seodash/internal/models"
)

const postColumns = `id, title, slug, content, keywords, word_count,
	keyword_density, system_prompt, created_at, updated_at`

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p        models.Post
		keywords []byte
		density  []byte
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &keywords, &p.WordCount,
		&density, &p.SystemPrompt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(keywords, &p.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if err := json.Unmarshal(density, &p.KeywordDensity); err != nil {
		return nil, fmt.Errorf("decode keyword density: %w", err)
	}
	// jsonb does not keep object key order; the keywords array does.
	p.KeywordDensity = p.KeywordDensity.Ordered(p.Keywords)
	return &p, nil
}

// List returns all posts, newest first.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Save inserts a new post and returns it with the generated ID and
// timestamps. The caller is responsible for the post's statistics.
func (s *PostStore) Save(ctx context.Context, p *models.Post) (*models.Post, error) {
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	kwJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("encode keywords: %w", err)
	}
	densityJSON, err := json.Marshal(p.KeywordDensity)
	if err != nil {
		return nil, fmt.Errorf("encode keyword density: %w", err)
	}

	saved, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, keywords, word_count,
		                   keyword_density, system_prompt)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, kwJSON, p.WordCount, densityJSON, p.SystemPrompt,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return saved, nil
}

// Update replaces a post's content together with the statistics derived
// from it. Returns nil if no post has the given ID.
func (s *PostStore) Update(ctx context.Context, id uuid.UUID, content string, stats models.Stats) (*models.Post, error) {
	densityJSON, err := json.Marshal(stats.KeywordDensity)
	if err != nil {
		return nil, fmt.Errorf("encode keyword density: %w", err)
	}

	updated, err := scanPost(s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			content = $1, word_count = $2, keyword_density = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING `+postColumns,
		content, stats.WordCount, densityJSON, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// Delete removes a post by ID and reports whether a row was deleted.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows affected: %w", err)
	}
	return n > 0, nil
}
