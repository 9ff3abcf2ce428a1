// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"seodash/internal/metrics"
)

// rateKeyPrefix is the Valkey key prefix for per-client counters.
const rateKeyPrefix = "ratelimit:"

// RateLimiter provides per-IP rate limiting using a fixed window counter
// stored in Valkey, so the limit holds across server instances.
type RateLimiter struct {
	client *redis.Client
	scope  string
	limit  int64         // max requests per window
	window time.Duration // window duration

	// trusted lists the proxies whose forwarding headers are believed.
	trusted []netip.Prefix
}

// NewRateLimiter creates a rate limiter that allows limit requests per
// window. The scope separates counters of independently limited routes.
func NewRateLimiter(client *redis.Client, scope string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		scope:  scope,
		limit:  int64(limit),
		window: window,
	}
}

// TrustProxies makes the limiter read the client address from
// X-Forwarded-For and X-Real-IP when the direct peer is one of prefixes.
// Without trusted proxies only the connection address is used.
func (rl *RateLimiter) TrustProxies(prefixes []netip.Prefix) *RateLimiter {
	rl.trusted = prefixes
	return rl
}

func (rl *RateLimiter) key(client string) string {
	return rateKeyPrefix + rl.scope + ":" + client
}

// allow increments the client's counter and reports whether it is still
// within the limit. The window starts at the first request.
func (rl *RateLimiter) allow(ctx context.Context, client string) (bool, error) {
	key := rl.key(client)

	// The TTL is set in the same transaction as the increment so a counter
	// can never outlive its window. NX keeps the window fixed.
	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, rl.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", key, err)
	}
	n := incr.Val()
	return n <= rl.limit, nil
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
// When Valkey is unreachable requests are let through and a warning is logged.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.trusted)

		ok, err := rl.allow(r.Context(), ip)
		if err != nil {
			slog.Warn("rate limiter unavailable", "scope", rl.scope, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			metrics.RateLimited.Inc()
			slog.Warn("rate limit exceeded", "scope", rl.scope, "client", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			if strings.HasPrefix(r.URL.Path, "/api/") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the address the request is counted against. Forwarding
// headers are only consulted when the direct peer is a trusted proxy; then
// X-Forwarded-For is walked from the right and the first untrusted hop wins.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !isTrusted(hop, trusted) || i == 0 {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
