// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkey starts an in-memory Valkey-compatible server for the test.
func testValkey(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestConnectValkey(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Fatalf("ConnectValkey: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	if _, err := ConnectValkey(host, port, ""); err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}

func TestPreviewCacheSetAndGet(t *testing.T) {
	_, client := testValkey(t)
	pc := NewPreviewCache(client, time.Minute)

	ctx := context.Background()
	id := uuid.New()

	data, ok := pc.Get(ctx, id)
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	html := []byte("<h2>Heading</h2><p>Body</p>")
	pc.Set(ctx, id, html)

	data, ok = pc.Get(ctx, id)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}
}

func TestPreviewCacheInvalidate(t *testing.T) {
	_, client := testValkey(t)
	pc := NewPreviewCache(client, time.Minute)

	ctx := context.Background()
	keep, drop := uuid.New(), uuid.New()

	pc.Set(ctx, keep, []byte("keep"))
	pc.Set(ctx, drop, []byte("drop"))
	pc.Invalidate(ctx, drop)

	if _, ok := pc.Get(ctx, drop); ok {
		t.Error("expected cache miss after invalidation")
	}
	if _, ok := pc.Get(ctx, keep); !ok {
		t.Error("other entries should survive invalidation")
	}
}

func TestPreviewCacheTTL(t *testing.T) {
	mr, client := testValkey(t)
	pc := NewPreviewCache(client, 0)

	if pc.ttl != DefaultPreviewTTL {
		t.Errorf("ttl: got %v, want default %v", pc.ttl, DefaultPreviewTTL)
	}

	ctx := context.Background()
	id := uuid.New()
	pc.Set(ctx, id, []byte("x"))

	if ttl := mr.TTL(previewKey(id)); ttl != DefaultPreviewTTL {
		t.Errorf("stored TTL: got %v, want %v", ttl, DefaultPreviewTTL)
	}

	mr.FastForward(DefaultPreviewTTL + time.Second)
	if _, ok := pc.Get(ctx, id); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestPreviewCacheServerDown(t *testing.T) {
	mr, client := testValkey(t)
	pc := NewPreviewCache(client, time.Minute)
	mr.Close()

	ctx := context.Background()
	id := uuid.New()

	// Errors degrade to misses and never panic.
	pc.Set(ctx, id, []byte("x"))
	if _, ok := pc.Get(ctx, id); ok {
		t.Error("expected miss when Valkey is unreachable")
	}
	pc.Invalidate(ctx, id)
}
