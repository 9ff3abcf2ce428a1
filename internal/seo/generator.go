// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"seodash/internal/ai"
)

// Input limits for a generation request.
const (
	MaxSlugLen  = 300
	MaxBriefLen = 10_000
)

// Generator produces articles through a single generation provider.
type Generator struct {
	provider ai.Provider
}

// NewGenerator creates a Generator backed by provider.
func NewGenerator(provider ai.Provider) *Generator {
	return &Generator{provider: provider}
}

// ValidateRequest checks a slug and brief before any external call.
func ValidateRequest(slug, brief string) error {
	slug = strings.TrimSpace(slug)
	brief = strings.TrimSpace(brief)
	if slug == "" || brief == "" {
		return ErrInvalidInput
	}
	if utf8.RuneCountInString(slug) > MaxSlugLen {
		return fmt.Errorf("%w: slug is too long (max %d characters)", ErrInvalidInput, MaxSlugLen)
	}
	if utf8.RuneCountInString(brief) > MaxBriefLen {
		return fmt.Errorf("%w: prompt is too long (max %d characters)", ErrInvalidInput, MaxBriefLen)
	}
	return nil
}

// GeneratePost asks the provider for an article about slug following brief.
// It makes exactly one call and never retries. On failure no partial
// result is returned.
func (g *Generator) GeneratePost(ctx context.Context, slug, brief string) (GenerationResult, error) {
	if err := ValidateRequest(slug, brief); err != nil {
		return GenerationResult{}, err
	}

	seed := FormatTitleSeed(strings.TrimSpace(slug))
	instruction := BuildInstruction(seed, strings.TrimSpace(brief))

	raw, err := g.provider.Generate(ctx, ai.Request{
		Instruction: instruction,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		JSON:        true,
	})
	if errors.Is(err, ai.ErrEmptyCompletion) {
		return GenerationResult{}, fmt.Errorf("%w: %w", ErrEmptyResponse, err)
	}
	if err != nil {
		return GenerationResult{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if strings.TrimSpace(raw) == "" {
		return GenerationResult{}, ErrEmptyResponse
	}

	result, err := ParseResponse(raw, seed)
	if err != nil {
		return GenerationResult{}, err
	}

	if len(result.Keywords) != KeywordCount {
		slog.Warn("generated keyword count differs from request",
			"slug", slug,
			"provider", g.provider.Name(),
			"got", len(result.Keywords),
			"want", KeywordCount,
		)
	}

	return result, nil
}
