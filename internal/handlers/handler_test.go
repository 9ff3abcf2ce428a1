// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test doubles for handler tests: an
// in-memory post repository, a scripted generator, a recording exporter,
// and a preview cache backed by miniredis.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"seodash/internal/cache"
	"seodash/internal/models"
	"seodash/internal/render"
	"seodash/internal/seo"
)

// memRepo is an in-memory PostRepository.
type memRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.Post
	err   error // returned by every call when set
	clock time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		posts: make(map[uuid.UUID]models.Post),
		clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memRepo) List(_ context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memRepo) Save(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	saved := *p
	saved.ID = uuid.New()
	saved.CreatedAt = m.tick()
	saved.UpdatedAt = saved.CreatedAt
	m.posts[saved.ID] = saved
	return &saved, nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, content string, stats models.Stats) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	p.Content = content
	p.ApplyStats(stats)
	p.UpdatedAt = m.tick()
	m.posts[id] = p
	return &p, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

// put stores a post directly and returns it.
func (m *memRepo) put(title, content string, keywords ...string) models.Post {
	p := models.Post{
		Title:    title,
		Slug:     strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Content:  content,
		Keywords: keywords,
	}
	p.ApplyStats(seo.ComputeStats(content, keywords))
	saved, _ := m.Save(context.Background(), &p)
	return *saved
}

// fakeGenerator returns a scripted result and records its calls.
type fakeGenerator struct {
	mu     sync.Mutex
	result seo.GenerationResult
	err    error
	calls  int
	slug   string
	brief  string
}

func (f *fakeGenerator) GeneratePost(_ context.Context, slugText, brief string) (seo.GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.slug, f.brief = slugText, brief
	if err := seo.ValidateRequest(slugText, brief); err != nil {
		return seo.GenerationResult{}, err
	}
	if f.err != nil {
		return seo.GenerationResult{}, f.err
	}
	return f.result, nil
}

// recordingExporter records export side effects.
type recordingExporter struct {
	mu       sync.Mutex
	exported []uuid.UUID
	removed  []uuid.UUID
	err      error
}

func (e *recordingExporter) Export(_ context.Context, p *models.Post) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exported = append(e.exported, p.ID)
	return e.err
}

func (e *recordingExporter) Remove(_ context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removed = append(e.removed, id)
	return e.err
}

func (e *recordingExporter) FileURL(id uuid.UUID) string {
	return "https://cdn.example.com/posts/" + id.String() + ".md"
}

// fakeProviders is a ProviderSwitcher with a fixed provider set.
type fakeProviders struct {
	active    string
	available []string
}

func (f *fakeProviders) Available() []string { return f.available }
func (f *fakeProviders) ActiveName() string  { return f.active }
func (f *fakeProviders) SetActive(name string) error {
	for _, n := range f.available {
		if n == name {
			f.active = name
			return nil
		}
	}
	return errors.New("provider not configured")
}

// testEnv bundles the handlers under test with their doubles.
type testEnv struct {
	repo      *memRepo
	gen       *fakeGenerator
	exporter  *recordingExporter
	mr        *miniredis.Miniredis
	previews  *cache.PreviewCache
	providers *fakeProviders
	posts     *Posts
	api       *API
	dashboard *Dashboard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rn, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &testEnv{
		repo: newMemRepo(),
		gen: &fakeGenerator{result: seo.GenerationResult{
			Title:    "Best Coffee Beans",
			Content:  "## Coffee\n\ncoffee beans are great coffee",
			Keywords: []string{"coffee", "beans"},
		}},
		exporter:  &recordingExporter{},
		mr:        mr,
		previews:  cache.NewPreviewCache(client, time.Minute),
		providers: &fakeProviders{active: "groq", available: []string{"groq", "openai"}},
	}
	env.posts = NewPosts(env.repo, env.gen, env.exporter, env.previews)
	env.api = NewAPI(env.posts)
	env.dashboard = NewDashboard(rn, env.posts, env.providers)
	return env
}

// router mounts the handlers the same way the application router does.
func (e *testEnv) router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-content", e.api.GenerateContent)
		r.Post("/stats", e.api.Stats)
		r.Get("/posts", e.api.ListPosts)
		r.Post("/posts", e.api.CreatePost)
		r.Delete("/posts", e.api.DeletePostByBody)
		r.Get("/posts/{id}", e.api.GetPost)
		r.Put("/posts/{id}", e.api.UpdatePost)
		r.Delete("/posts/{id}", e.api.DeletePost)
		r.Get("/markdown", e.api.MarkdownIndex)
		r.Get("/markdown/{id}", e.api.MarkdownPost)
	})

	r.Get("/", e.dashboard.Index)
	r.Post("/generate", e.dashboard.Generate)
	r.Post("/draft/stats", e.dashboard.DraftStats)
	r.Post("/posts", e.dashboard.Save)
	r.Get("/posts/{id}", e.dashboard.View)
	r.Post("/posts/{id}/edit", e.dashboard.Edit)
	r.Post("/posts/{id}/delete", e.dashboard.Delete)
	r.Get("/settings", e.dashboard.Settings)
	r.Post("/settings/provider", e.dashboard.SetProvider)
	return r
}
