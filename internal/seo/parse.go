// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GenerationResult is the article parsed from the generation service.
type GenerationResult struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// ParseResponse decodes the service's raw JSON answer. Text that is not
// JSON at all fails with ErrMalformedResponse. Anything else is accepted:
// a missing, empty or mistyped title falls back to titleSeed, a missing or
// mistyped content becomes "", and keywords that are not an array of
// strings become an empty list. The keyword count is not enforced.
func ParseResponse(raw, titleSeed string) (GenerationResult, error) {
	data := bytes.TrimSpace([]byte(raw))
	if !json.Valid(data) {
		return GenerationResult{}, fmt.Errorf("%w: %.80q", ErrMalformedResponse, raw)
	}

	result := GenerationResult{
		Title:    titleSeed,
		Keywords: []string{},
	}

	// Valid JSON that is not an object (array, string, null) carries no
	// fields, so every default applies.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return result, nil
	}

	var title string
	if decodeField(fields, "title", &title) && title != "" {
		result.Title = title
	}

	var content string
	if decodeField(fields, "content", &content) {
		result.Content = content
	}

	var keywords []string
	if decodeField(fields, "keywords", &keywords) && keywords != nil {
		result.Keywords = keywords
	}

	return result, nil
}

// decodeField unmarshals fields[key] into dst and reports whether it was
// present and of the expected type.
func decodeField(fields map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
