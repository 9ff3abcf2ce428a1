// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// preview.go caches the HTML rendering of each post's markdown so the
// dashboard does not re-run goldmark on every view. Entries are keyed by
// post ID and dropped whenever the post's content changes or it is deleted.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// previewKeyPrefix is the Valkey key prefix for cached previews.
	previewKeyPrefix = "preview:"

	// DefaultPreviewTTL is how long a rendered preview stays cached.
	DefaultPreviewTTL = 30 * time.Minute
)

// PreviewCache manages rendered post HTML in Valkey.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreviewCache creates a preview cache backed by the given Valkey client.
func NewPreviewCache(client *redis.Client, ttl time.Duration) *PreviewCache {
	if ttl == 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewCache{client: client, ttl: ttl}
}

func previewKey(id uuid.UUID) string {
	return previewKeyPrefix + id.String()
}

// Get retrieves cached HTML for a post. Errors are logged and reported as a miss.
func (pc *PreviewCache) Get(ctx context.Context, id uuid.UUID) ([]byte, bool) {
	val, err := pc.client.Get(ctx, previewKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("preview cache get error", "id", id, "error", err)
		return nil, false
	}
	slog.Debug("preview cache hit", "id", id)
	return val, true
}

// Set stores rendered HTML for a post with the configured TTL.
func (pc *PreviewCache) Set(ctx context.Context, id uuid.UUID, html []byte) {
	if err := pc.client.Set(ctx, previewKey(id), html, pc.ttl).Err(); err != nil {
		slog.Warn("preview cache set error", "id", id, "error", err)
	}
}

// Invalidate removes a post's cached preview.
func (pc *PreviewCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := pc.client.Del(ctx, previewKey(id)).Err(); err != nil {
		slog.Warn("preview cache invalidate error", "id", id, "error", err)
		return
	}
	slog.Debug("preview cache invalidated", "id", id)
}
