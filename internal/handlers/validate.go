// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"seodash/internal/seo"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxBodyLen    = 100_000
	maxKeywordLen = 500
)

// validatePost checks post inputs and returns the first error found.
func validatePost(title, slug, body string, keywords []string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > seo.MaxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return validateKeywords(keywords)
}

// validateKeywords checks the keyword list of a post or draft. Any number
// of keywords is accepted.
func validateKeywords(keywords []string) string {
	for _, kw := range keywords {
		if utf8.RuneCountInString(kw) > maxKeywordLen {
			return "Keyword is too long (max 500 characters)."
		}
	}
	return ""
}

// validateBody checks edited post content.
func validateBody(body string) string {
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// cleanKeywords trims each keyword and drops empty entries. The result is
// never nil so it encodes as an empty JSON array.
func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
