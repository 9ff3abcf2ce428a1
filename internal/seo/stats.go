// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"regexp"
	"strings"

	"seodash/internal/models"
)

// whitespace matches runs of the characters JavaScript's \s covers: ASCII
// whitespace including vertical tab, Unicode separators and the BOM.
var whitespace = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// Tokenize lower-cases text and splits it on runs of whitespace. Punctuation
// stays attached to words. Leading or trailing whitespace yields an empty
// token at that end, and empty text yields a single empty token, so the
// result always has at least one element.
func Tokenize(text string) []string {
	return whitespace.Split(strings.ToLower(text), -1)
}

// ComputeStats derives the word count and per-keyword density of content.
// A keyword matches a token only when the two are equal after lower-casing.
// Density is matches / word count * 100. Keywords keep their original
// spelling as keys; a repeated keyword overwrites its earlier entry.
func ComputeStats(content string, keywords []string) models.Stats {
	tokens := Tokenize(content)
	wordCount := len(tokens)

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	var density models.KeywordDensity
	for _, kw := range keywords {
		matches := counts[strings.ToLower(kw)]
		density.Set(kw, float64(matches)/float64(wordCount)*100)
	}

	return models.Stats{WordCount: wordCount, KeywordDensity: density}
}
