// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes post slugs and derives them from titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid matches a normalized slug.
	valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// MaxLen is the longest slug Generate returns.
const MaxLen = 120

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return truncate(result)
}

// Valid reports whether s is already a normalized slug.
func Valid(s string) bool {
	return len(s) <= MaxLen && valid.MatchString(s)
}

// truncate shortens s to MaxLen, cutting at the last hyphen when possible
// so words are not split.
func truncate(s string) string {
	if len(s) <= MaxLen {
		return s
	}
	if s[MaxLen] == '-' {
		return s[:MaxLen]
	}
	s = s[:MaxLen]
	if idx := strings.LastIndexByte(s, '-'); idx > 0 {
		s = s[:idx]
	}
	return strings.Trim(s, "-")
}
