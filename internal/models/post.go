// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a generated (or hand-written) article persisted in the posts table.
// WordCount and KeywordDensity are always derived from Content and Keywords;
// they are recomputed whenever Content changes.
type Post struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Content        string         `json:"content"`
	Keywords       []string       `json:"keywords"`
	WordCount      int            `json:"word_count"`
	KeywordDensity KeywordDensity `json:"keyword_density"`
	SystemPrompt   *string        `json:"system_prompt,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ApplyStats copies derived statistics onto the post.
func (p *Post) ApplyStats(s Stats) {
	p.WordCount = s.WordCount
	p.KeywordDensity = s.KeywordDensity
}

// Stats holds the word count and keyword densities derived from a body of text.
type Stats struct {
	WordCount      int            `json:"wordCount"`
	KeywordDensity KeywordDensity `json:"keywordDensity"`
}

// PostSummary is the metadata view of a post served by the markdown index.
type PostSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	WordCount   int       `json:"word_count"`
	Keywords    []string  `json:"keywords"`
	MarkdownURL string    `json:"markdown_url"`
}

// Summary builds the metadata view of p.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		CreatedAt:   p.CreatedAt,
		WordCount:   p.WordCount,
		Keywords:    p.Keywords,
		MarkdownURL: "/api/markdown/" + p.ID.String(),
	}
}
