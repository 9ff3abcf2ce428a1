// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for seodash: the JSON API and
// the server-rendered dashboard. Both share the Posts service, which owns
// generation, statistics and persistence side effects.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"seodash/internal/markdown"
	"seodash/internal/metrics"
	"seodash/internal/models"
	"seodash/internal/seo"
	"seodash/internal/slug"
)

// PostRepository persists posts. *store.PostStore satisfies it.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Save(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, id uuid.UUID, content string, stats models.Stats) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ArticleGenerator produces an article from a slug and brief. *seo.Generator satisfies it.
type ArticleGenerator interface {
	GeneratePost(ctx context.Context, slug, brief string) (seo.GenerationResult, error)
}

// Exporter mirrors post markdown to external storage. *storage.Exporter satisfies it.
type Exporter interface {
	Export(ctx context.Context, p *models.Post) error
	Remove(ctx context.Context, id uuid.UUID) error
	FileURL(id uuid.UUID) string
}

// PreviewCache stores rendered post HTML. *cache.PreviewCache satisfies it.
type PreviewCache interface {
	Get(ctx context.Context, id uuid.UUID) ([]byte, bool)
	Set(ctx context.Context, id uuid.UUID, html []byte)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// ErrNotFound is returned when a post does not exist.
var ErrNotFound = errors.New("post not found")

// inputError carries a user-facing validation message.
type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

// PostInput is a post submitted for creation. Statistics are never taken
// from the client; they are computed from Content and Keywords.
type PostInput struct {
	Title        string
	Slug         string
	Content      string
	Keywords     []string
	SystemPrompt string
}

// Posts implements the operations shared by the API and the dashboard.
type Posts struct {
	repo      PostRepository
	generator ArticleGenerator
	exporter  Exporter     // optional
	previews  PreviewCache // optional
}

// NewPosts creates the post service. exporter and previews may be nil.
func NewPosts(repo PostRepository, generator ArticleGenerator, exporter Exporter, previews PreviewCache) *Posts {
	return &Posts{
		repo:      repo,
		generator: generator,
		exporter:  exporter,
		previews:  previews,
	}
}

// Generate runs one generation and records its outcome.
func (s *Posts) Generate(ctx context.Context, slugText, brief string) (seo.GenerationResult, error) {
	start := time.Now()
	result, err := s.generator.GeneratePost(ctx, slugText, brief)
	elapsed := time.Since(start)

	outcome := seo.Outcome(err)
	metrics.ObserveGeneration(outcome, elapsed)
	if err != nil {
		level := slog.LevelError
		if outcome == "invalid_input" {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, "content generation failed",
			"slug", slugText, "outcome", outcome, "duration", elapsed.String(), "error", err)
		return seo.GenerationResult{}, err
	}

	slog.Info("content generated",
		"slug", slugText, "keywords", len(result.Keywords), "duration", elapsed.String())
	return result, nil
}

// List returns all posts, newest first.
func (s *Posts) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.List(ctx)
	metrics.ObservePostOperation("list", err)
	return posts, err
}

// Get returns a post or ErrNotFound.
func (s *Posts) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	metrics.ObservePostOperation("get", err)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Create validates in, computes its statistics and persists it. An empty
// slug is derived from the title.
func (s *Posts) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Keywords = cleanKeywords(in.Keywords)

	if msg := validatePost(in.Title, in.Slug, in.Content, in.Keywords); msg != "" {
		return nil, &inputError{msg}
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}
	if in.Slug == "" {
		return nil, &inputError{"Slug is required."}
	}

	p := &models.Post{
		Title:    in.Title,
		Slug:     in.Slug,
		Content:  in.Content,
		Keywords: in.Keywords,
	}
	if brief := strings.TrimSpace(in.SystemPrompt); brief != "" {
		p.SystemPrompt = &brief
	}
	p.ApplyStats(seo.ComputeStats(p.Content, p.Keywords))

	saved, err := s.repo.Save(ctx, p)
	metrics.ObservePostOperation("save", err)
	if err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	slog.Info("post saved", "id", saved.ID, "slug", saved.Slug, "words", saved.WordCount)
	s.export(ctx, saved)
	return saved, nil
}

// UpdateContent replaces a post's content and recomputes its statistics
// against the stored keywords.
func (s *Posts) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*models.Post, error) {
	if msg := validateBody(content); msg != "" {
		return nil, &inputError{msg}
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := seo.ComputeStats(content, current.Keywords)
	updated, err := s.repo.Update(ctx, id, content, stats)
	metrics.ObservePostOperation("update", err)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if s.previews != nil {
		s.previews.Invalidate(ctx, id)
	}
	slog.Info("post updated", "id", id, "words", updated.WordCount)
	s.export(ctx, updated)
	return updated, nil
}

// Delete removes a post. It returns ErrNotFound when nothing was deleted.
func (s *Posts) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	metrics.ObservePostOperation("delete", err)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	if s.previews != nil {
		s.previews.Invalidate(ctx, id)
	}
	if s.exporter != nil {
		if err := s.exporter.Remove(ctx, id); err != nil {
			slog.Warn("remove exported markdown failed", "id", id, "error", err)
		}
	}
	slog.Info("post deleted", "id", id)
	return nil
}

// Preview returns the rendered HTML of a post's content, using the
// preview cache when available.
func (s *Posts) Preview(ctx context.Context, p *models.Post) (template.HTML, error) {
	if s.previews != nil {
		if cached, ok := s.previews.Get(ctx, p.ID); ok {
			return template.HTML(cached), nil
		}
	}

	rendered, err := markdown.ToHTML(p.Content)
	if err != nil {
		return "", fmt.Errorf("render post %s: %w", p.ID, err)
	}

	if s.previews != nil {
		s.previews.Set(ctx, p.ID, []byte(rendered))
	}
	return template.HTML(rendered), nil
}

// ExportURL returns where a post's markdown is mirrored, or "".
func (s *Posts) ExportURL(id uuid.UUID) string {
	if s.exporter == nil {
		return ""
	}
	return s.exporter.FileURL(id)
}

// export mirrors p to storage. Failures are logged; the database stays the
// source of truth.
func (s *Posts) export(ctx context.Context, p *models.Post) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.Export(ctx, p); err != nil {
		slog.Warn("export markdown failed", "id", p.ID, "error", err)
	}
}
