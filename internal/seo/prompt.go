// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seo turns a slug and a writing brief into a generated SEO article
// and derives keyword statistics from article bodies.
package seo

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Generation parameters sent with every request.
const (
	Temperature = 0.7
	MaxTokens   = 4000
	// KeywordCount is how many keywords the instruction asks for.
	KeywordCount = 5
)

// FormatTitleSeed turns a slug into a human-readable title seed:
// "nextjs-seo-guide" becomes "Nextjs Seo Guide". Only the first rune of
// each segment is changed; empty segments from repeated hyphens are dropped.
func FormatTitleSeed(slug string) string {
	segments := strings.Split(slug, "-")
	words := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(seg)
		words = append(words, string(unicode.ToUpper(r))+seg[size:])
	}
	return strings.Join(words, " ")
}

// BuildInstruction embeds the title seed and the operator's brief into the
// fixed system instruction. The response shape it asks for is what
// ParseResponse expects.
func BuildInstruction(titleSeed, brief string) string {
	return fmt.Sprintf(`You are a professional content writer specializing in SEO-optimized articles.
Create a comprehensive article about "%s" based on the following instructions: %s.

Respond with a JSON object that strictly follows this format:
{
  "title": "Your SEO-optimized title here",
  "content": "Your markdown-formatted content here with proper headings, paragraphs, and formatting",
  "keywords": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"]
}

The content should be well-structured with proper markdown headings, paragraphs, and formatting.
The keywords should be relevant for SEO purposes and limited to exactly %d items.`,
		titleSeed, brief, KeywordCount)
}
