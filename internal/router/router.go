// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for seodash.
// Routes are grouped into the JSON API, the dashboard and operational
// endpoints.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"seodash/internal/handlers"
	"seodash/internal/metrics"
	"seodash/internal/middleware"
	"seodash/web"
)

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// New creates and returns the configured Chi router. generateLimit guards
// the routes that call the generation service and may be nil.
func New(db Pinger, api *handlers.API, dash *handlers.Dashboard, generateLimit *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	limit := func(h http.HandlerFunc) http.Handler {
		if generateLimit == nil {
			return h
		}
		return generateLimit.Middleware(h)
	}

	r.Get("/health", healthHandler(db))
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/generate-content", limit(api.GenerateContent))
		r.Post("/stats", api.Stats)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.ListPosts)
			r.Post("/", api.CreatePost)
			r.Delete("/", api.DeletePostByBody)
			r.Get("/{id}", api.GetPost)
			r.Put("/{id}", api.UpdatePost)
			r.Delete("/{id}", api.DeletePost)
		})

		r.Get("/markdown", api.MarkdownIndex)
		r.Get("/markdown/{id}", api.MarkdownPost)
	})

	// Dashboard
	r.Get("/", dash.Index)
	r.Method(http.MethodPost, "/generate", limit(dash.Generate))
	r.Post("/draft/stats", dash.DraftStats)
	r.Post("/posts", dash.Save)
	r.Get("/posts/{id}", dash.View)
	r.Post("/posts/{id}/edit", dash.Edit)
	r.Post("/posts/{id}/delete", dash.Delete)
	r.Get("/settings", dash.Settings)
	r.Post("/settings/provider", dash.SetProvider)

	return r
}

// healthHandler reports service health, including database reachability.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				status, code = "unavailable", http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
