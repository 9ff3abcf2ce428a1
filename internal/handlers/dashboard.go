// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"seodash/internal/markdown"
	"seodash/internal/models"
	"seodash/internal/render"
	"seodash/internal/seo"
)

// ProviderSwitcher exposes the generation providers to the settings page.
// *ai.Registry satisfies it.
type ProviderSwitcher interface {
	Available() []string
	ActiveName() string
	SetActive(name string) error
}

// Draft is a generated article under review before it is saved.
type Draft struct {
	Slug     string
	Prompt   string
	Title    string
	Content  string
	Keywords []string
	Stats    models.Stats
}

// notices maps the ?notice= query value set on redirects to a flash.
var notices = map[string]render.Flash{
	"saved":    {Type: "success", Message: "Post saved."},
	"updated":  {Type: "success", Message: "Post updated. Statistics recalculated."},
	"deleted":  {Type: "success", Message: "Post deleted."},
	"provider": {Type: "info", Message: "Generation provider switched."},
}

// Dashboard serves the server-rendered operator pages.
type Dashboard struct {
	renderer  *render.Renderer
	posts     *Posts
	providers ProviderSwitcher
}

// NewDashboard creates the dashboard handler group.
func NewDashboard(renderer *render.Renderer, posts *Posts, providers ProviderSwitcher) *Dashboard {
	return &Dashboard{renderer: renderer, posts: posts, providers: providers}
}

// Index renders the generation form and the list of saved posts.
func (d *Dashboard) Index(w http.ResponseWriter, r *http.Request) {
	d.renderIndex(w, r, http.StatusOK, "", "", nil)
}

// Generate handles the generation form and renders the resulting draft.
func (d *Dashboard) Generate(w http.ResponseWriter, r *http.Request) {
	slugText := strings.TrimSpace(r.FormValue("slug"))
	prompt := strings.TrimSpace(r.FormValue("prompt"))

	result, err := d.posts.Generate(r.Context(), slugText, prompt)
	if err != nil {
		status, msg := http.StatusInternalServerError, "Failed to generate content. Please try again."
		if errors.Is(err, seo.ErrInvalidInput) {
			status, msg = http.StatusBadRequest, generationInputMessage(err)+"."
		}
		d.renderIndex(w, r, status, slugText, prompt, &render.Flash{Type: "error", Message: msg})
		return
	}

	d.renderDraft(w, http.StatusOK, Draft{
		Slug:     slugText,
		Prompt:   prompt,
		Title:    result.Title,
		Content:  result.Content,
		Keywords: result.Keywords,
		Stats:    seo.ComputeStats(result.Content, result.Keywords),
	}, nil)
}

// DraftStats recomputes statistics for an edited draft without saving it.
func (d *Dashboard) DraftStats(w http.ResponseWriter, r *http.Request) {
	draft := draftFromForm(r)

	var flash *render.Flash
	if msg := validateKeywords(draft.Keywords); msg != "" {
		flash = &render.Flash{Type: "error", Message: msg}
	} else if msg := validateBody(draft.Content); msg != "" {
		flash = &render.Flash{Type: "error", Message: msg}
	} else {
		draft.Stats = seo.ComputeStats(draft.Content, draft.Keywords)
	}

	status := http.StatusOK
	if flash != nil {
		status = http.StatusBadRequest
	}
	d.renderDraft(w, status, draft, flash)
}

// Save persists a reviewed draft and redirects to the post page.
func (d *Dashboard) Save(w http.ResponseWriter, r *http.Request) {
	draft := draftFromForm(r)

	post, err := d.posts.Create(r.Context(), PostInput{
		Title:        draft.Title,
		Slug:         draft.Slug,
		Content:      draft.Content,
		Keywords:     draft.Keywords,
		SystemPrompt: draft.Prompt,
	})
	if err != nil {
		var inErr *inputError
		if errors.As(err, &inErr) {
			draft.Stats = seo.ComputeStats(draft.Content, draft.Keywords)
			d.renderDraft(w, http.StatusBadRequest, draft, &render.Flash{Type: "error", Message: inErr.msg})
			return
		}
		slog.Error("save post failed", "error", err)
		d.renderError(w, http.StatusInternalServerError, "Error", "Failed to save the post.")
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID.String()+"?notice=saved", http.StatusSeeOther)
}

// View renders a saved post with its statistics and HTML preview.
func (d *Dashboard) View(w http.ResponseWriter, r *http.Request) {
	post, ok := d.loadPost(w, r)
	if !ok {
		return
	}

	html, err := d.posts.Preview(r.Context(), post)
	if err != nil {
		slog.Error("render preview failed", "id", post.ID, "error", err)
	}

	d.renderer.Page(w, http.StatusOK, "post", &render.PageData{
		Title:    post.Title,
		Section:  "posts",
		Provider: d.providers.ActiveName(),
		Flashes:  noticeFlashes(r),
		Data: map[string]any{
			"Post":      post,
			"HTML":      html,
			"Outline":   markdown.Outline(post.Content),
			"ExportURL": d.posts.ExportURL(post.ID),
		},
	})
}

// Edit updates a post's content; statistics are recomputed.
func (d *Dashboard) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := d.parseID(w, r)
	if !ok {
		return
	}

	_, err := d.posts.UpdateContent(r.Context(), id, r.FormValue("content"))
	if err != nil {
		d.writePostError(w, err, "Failed to update the post.")
		return
	}
	http.Redirect(w, r, "/posts/"+id.String()+"?notice=updated", http.StatusSeeOther)
}

// Delete removes a post and returns to the index.
func (d *Dashboard) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := d.parseID(w, r)
	if !ok {
		return
	}

	if err := d.posts.Delete(r.Context(), id); err != nil {
		d.writePostError(w, err, "Failed to delete the post.")
		return
	}
	http.Redirect(w, r, "/?notice=deleted", http.StatusSeeOther)
}

// Settings renders the provider selection page.
func (d *Dashboard) Settings(w http.ResponseWriter, r *http.Request) {
	d.renderSettings(w, http.StatusOK, noticeFlashes(r))
}

// SetProvider switches the active generation provider at runtime.
func (d *Dashboard) SetProvider(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("provider"))
	if err := d.providers.SetActive(name); err != nil {
		slog.Warn("failed to switch provider", "provider", name, "error", err)
		d.renderSettings(w, http.StatusBadRequest, []render.Flash{{
			Type:    "error",
			Message: "Cannot switch to \"" + name + "\": provider not available.",
		}})
		return
	}

	slog.Info("generation provider switched", "provider", name)
	http.Redirect(w, r, "/settings?notice=provider", http.StatusSeeOther)
}

func (d *Dashboard) renderIndex(w http.ResponseWriter, r *http.Request, status int, slugText, prompt string, flash *render.Flash) {
	posts, err := d.posts.List(r.Context())
	if err != nil {
		slog.Error("list posts failed", "error", err)
	}

	flashes := noticeFlashes(r)
	if flash != nil {
		flashes = append(flashes, *flash)
	}
	if err != nil {
		flashes = append(flashes, render.Flash{Type: "error", Message: "Failed to load posts."})
	}

	d.renderer.Page(w, status, "index", &render.PageData{
		Title:    "Posts",
		Section:  "posts",
		Provider: d.providers.ActiveName(),
		Flashes:  flashes,
		Data: map[string]any{
			"Posts":  posts,
			"Slug":   slugText,
			"Prompt": prompt,
		},
	})
}

func (d *Dashboard) renderDraft(w http.ResponseWriter, status int, draft Draft, flash *render.Flash) {
	var flashes []render.Flash
	if flash != nil {
		flashes = append(flashes, *flash)
	}
	d.renderer.Page(w, status, "draft", &render.PageData{
		Title:    "Review draft",
		Section:  "posts",
		Provider: d.providers.ActiveName(),
		Flashes:  flashes,
		Data:     map[string]any{"Draft": draft},
	})
}

func (d *Dashboard) renderSettings(w http.ResponseWriter, status int, flashes []render.Flash) {
	d.renderer.Page(w, status, "settings", &render.PageData{
		Title:    "Settings",
		Section:  "settings",
		Provider: d.providers.ActiveName(),
		Flashes:  flashes,
		Data: map[string]any{
			"Providers": d.providers.Available(),
			"Active":    d.providers.ActiveName(),
		},
	})
}

func (d *Dashboard) renderError(w http.ResponseWriter, status int, title, msg string) {
	d.renderer.Page(w, status, "error", &render.PageData{
		Title:    title,
		Provider: d.providers.ActiveName(),
		Data:     map[string]any{"Message": msg},
	})
}

// loadPost fetches the post named by the {id} URL parameter, rendering an
// error page when it cannot.
func (d *Dashboard) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, ok := d.parseID(w, r)
	if !ok {
		return nil, false
	}
	post, err := d.posts.Get(r.Context(), id)
	if err != nil {
		d.writePostError(w, err, "Failed to load the post.")
		return nil, false
	}
	return post, true
}

func (d *Dashboard) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		d.renderError(w, http.StatusNotFound, "Not found", "Post not found.")
		return uuid.Nil, false
	}
	return id, true
}

func (d *Dashboard) writePostError(w http.ResponseWriter, err error, fallback string) {
	var inErr *inputError
	switch {
	case errors.As(err, &inErr):
		d.renderError(w, http.StatusBadRequest, "Invalid input", inErr.msg)
	case errors.Is(err, ErrNotFound):
		d.renderError(w, http.StatusNotFound, "Not found", "Post not found.")
	default:
		slog.Error("post operation failed", "error", err)
		d.renderError(w, http.StatusInternalServerError, "Error", fallback)
	}
}

// draftFromForm reads a draft from the review form.
// draftFromForm reads a submitted draft. Keywords arrive as one form field
// per keyword so commas inside a keyword survive the round trip.
func draftFromForm(r *http.Request) Draft {
	r.ParseForm()
	return Draft{
		Slug:     strings.TrimSpace(r.FormValue("slug")),
		Prompt:   strings.TrimSpace(r.FormValue("prompt")),
		Title:    strings.TrimSpace(r.FormValue("title")),
		Content:  r.FormValue("content"),
		Keywords: cleanKeywords(r.Form["keywords"]),
	}
}

// noticeFlashes returns the flash named by the ?notice= query parameter.
func noticeFlashes(r *http.Request) []render.Flash {
	if f, ok := notices[r.URL.Query().Get("notice")]; ok {
		return []render.Flash{f}
	}
	return nil
}
