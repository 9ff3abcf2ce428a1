// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"seodash/internal/models"
	"seodash/internal/seo"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

// API serves the JSON endpoints under /api.
type API struct {
	posts *Posts
}

// NewAPI creates the JSON API handler group.
func NewAPI(posts *Posts) *API {
	return &API{posts: posts}
}

type generateRequest struct {
	Slug   string `json:"slug"`
	Prompt string `json:"prompt"`
}

type statsRequest struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

type createPostRequest struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Content      string   `json:"content"`
	Keywords     []string `json:"keywords"`
	SystemPrompt string   `json:"system_prompt"`
}

type updatePostRequest struct {
	Content *string `json:"content"`
}

type deletePostRequest struct {
	ID string `json:"id"`
}

// GenerateContent handles POST /api/generate-content.
func (a *API) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := a.posts.Generate(r.Context(), req.Slug, req.Prompt)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, seo.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, generationInputMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, "Failed to generate content")
	}
}

// Stats handles POST /api/stats, computing statistics for draft content.
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	keywords := cleanKeywords(req.Keywords)
	if msg := validateKeywords(keywords); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateBody(req.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, seo.ComputeStats(req.Content, keywords))
}

// ListPosts handles GET /api/posts.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List(r.Context())
	if err != nil {
		slog.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreatePost handles POST /api/posts.
func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := a.posts.Create(r.Context(), PostInput(req))
	if err != nil {
		a.writePostError(w, "create", err, "Failed to create post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// GetPost handles GET /api/posts/{id}.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	post, err := a.posts.Get(r.Context(), id)
	if err != nil {
		a.writePostError(w, "get", err, "Failed to fetch post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// UpdatePost handles PUT /api/posts/{id}. Only the content is editable;
// statistics are recomputed from it.
func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req updatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	post, err := a.posts.UpdateContent(r.Context(), id, *req.Content)
	if err != nil {
		a.writePostError(w, "update", err, "Failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/{id}.
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	a.deleteByID(w, r, chi.URLParam(r, "id"))
}

// DeletePostByBody handles DELETE /api/posts with an {"id": ...} body.
func (a *API) DeletePostByBody(w http.ResponseWriter, r *http.Request) {
	var req deletePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a.deleteByID(w, r, req.ID)
}

func (a *API) deleteByID(w http.ResponseWriter, r *http.Request, rawID string) {
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}
	if err := a.posts.Delete(r.Context(), id); err != nil {
		a.writePostError(w, "delete", err, "Failed to delete post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MarkdownIndex handles GET /api/markdown, listing post metadata with a
// link to each post's markdown.
func (a *API) MarkdownIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List(r.Context())
	if err != nil {
		slog.Error("list markdown failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch markdown files")
		return
	}

	summaries := make([]models.PostSummary, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, posts[i].Summary())
	}
	writeJSON(w, http.StatusOK, summaries)
}

// MarkdownPost handles GET /api/markdown/{id}. With ?markdownOnly=true the
// raw markdown is returned as text/markdown.
func (a *API) MarkdownPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	post, err := a.posts.Get(r.Context(), id)
	if err != nil {
		a.writePostError(w, "markdown", err, "Failed to fetch markdown")
		return
	}

	if r.URL.Query().Get("markdownOnly") == "true" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, post.Content)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// writePostError maps a Posts error to a status code.
func (a *API) writePostError(w http.ResponseWriter, op string, err error, fallback string) {
	var inErr *inputError
	switch {
	case errors.As(err, &inErr):
		writeError(w, http.StatusBadRequest, strings.TrimSuffix(inErr.msg, "."))
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	default:
		slog.Error("post operation failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// generationInputMessage returns the client message for an invalid
// generation request.
func generationInputMessage(err error) string {
	if errors.Is(err, seo.ErrInvalidInput) && err != seo.ErrInvalidInput {
		return "Slug or prompt is too long"
	}
	return "Slug and prompt are required"
}

// parseID parses a post ID, writing a 400 response when it is missing or invalid.
func parseID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Post ID is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst, writing a 400 response on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("invalid json body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the {"error": msg} envelope used by every API failure.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
