package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"seodash/internal/seo"
)

// Sample post shown on a fresh development database.
const (
	sampleTitle   = "Welcome to the SEO Dashboard"
	sampleSlug    = "welcome-to-the-seo-dashboard"
	sampleContent = `## Getting started

Enter a slug and a prompt on the dashboard to generate an article. Each
article comes back with a title, markdown content and five keywords.

## Keyword statistics

The dashboard counts words and reports how often each keyword appears as a
share of all words. Editing an article recomputes the statistics.`
)

var sampleKeywords = []string{"seo", "dashboard", "keywords", "article", "markdown"}

// Seed inserts a sample post when the posts table is empty. It is only run
// in development and is safe to call repeatedly.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	stats := seo.ComputeStats(sampleContent, sampleKeywords)

	keywords, err := json.Marshal(sampleKeywords)
	if err != nil {
		return fmt.Errorf("seed marshal keywords: %w", err)
	}
	density, err := json.Marshal(stats.KeywordDensity)
	if err != nil {
		return fmt.Errorf("seed marshal density: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (title, slug, content, keywords, word_count, keyword_density)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sampleTitle, sampleSlug, sampleContent, keywords, stats.WordCount, density)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with sample post", "slug", sampleSlug)
	return nil
}
