// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import "errors"

// Generation failures. Callers match them with errors.Is; ErrGeneration
// wraps the underlying provider error.
var (
	ErrInvalidInput      = errors.New("seo: slug and prompt are required")
	ErrGeneration        = errors.New("seo: generation service failed")
	ErrEmptyResponse     = errors.New("seo: generation service returned no content")
	ErrMalformedResponse = errors.New("seo: generation response is not valid JSON")
)

// Outcome classifies a GeneratePost error into a short, stable label for
// logs and metrics. A nil error is "ok".
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrGeneration):
		return "generation_failed"
	default:
		return "error"
	}
}
