package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"seodash/internal/models"
)

var postRowColumns = []string{
	"id", "title", "slug", "content", "keywords", "word_count",
	"keyword_density", "system_prompt", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostStore(db), mock
}

func TestPostStore_Save(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prompt := "write about go"

	var density models.KeywordDensity
	density.Set("go", 50)
	density.Set("rust", 0)

	mock.ExpectQuery("INSERT INTO posts").
		WithArgs("Go Tips", "go-tips", "go tips", []byte(`["go","rust"]`), 2,
			[]byte(`{"go":50,"rust":0}`), &prompt).
		WillReturnRows(sqlmock.NewRows(postRowColumns).AddRow(
			id.String(), "Go Tips", "go-tips", "go tips", []byte(`["go","rust"]`), int64(2),
			[]byte(`{"go":50,"rust":0}`), prompt, now, now,
		))

	saved, err := s.Save(context.Background(), &models.Post{
		Title:          "Go Tips",
		Slug:           "go-tips",
		Content:        "go tips",
		Keywords:       []string{"go", "rust"},
		WordCount:      2,
		KeywordDensity: density,
		SystemPrompt:   &prompt,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if saved.ID != id {
		t.Errorf("ID = %v, want %v", saved.ID, id)
	}
	if saved.SystemPrompt == nil || *saved.SystemPrompt != prompt {
		t.Errorf("SystemPrompt = %v, want %q", saved.SystemPrompt, prompt)
	}
	if got := saved.KeywordDensity.Keywords(); len(got) != 2 || got[0] != "go" || got[1] != "rust" {
		t.Errorf("KeywordDensity keys = %v, want [go rust]", got)
	}
	if !saved.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", saved.CreatedAt, now)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostStore_SaveNilKeywords(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO posts").
		WithArgs("T", "t", "", []byte(`[]`), 1, []byte(`{}`), sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	_, err := s.Save(context.Background(), &models.Post{Title: "T", Slug: "t", WordCount: 1})
	if err == nil {
		t.Fatal("Save() should propagate the database error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostStore_List(t *testing.T) {
	s, mock := newMockStore(t)

	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM posts\\s+ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(uuid.NewString(), "Newer", "newer", "b", []byte(`["b"]`), int64(1), []byte(`{"b":100}`), nil, newer, newer).
			AddRow(uuid.NewString(), "Older", "older", "a", []byte(`null`), int64(1), []byte(`{}`), nil, older, older))

	posts, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Title != "Newer" || posts[1].Title != "Older" {
		t.Errorf("order = [%s %s], want [Newer Older]", posts[0].Title, posts[1].Title)
	}
	if posts[1].Keywords == nil {
		t.Error("null keywords should decode to an empty slice")
	}
	if posts[0].SystemPrompt != nil {
		t.Errorf("SystemPrompt = %v, want nil", posts[0].SystemPrompt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostStore_ListEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM posts").
		WillReturnRows(sqlmock.NewRows(postRowColumns))

	posts, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", posts)
	}
}

func TestPostStore_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = \\$1").
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow(id.String(), "T", "t", "body", []byte(`["x"]`), int64(1), []byte(`{"x":0}`), nil, now, now))

		p, err := s.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if p == nil || p.ID != id || p.Content != "body" {
			t.Errorf("FindByID() = %+v", p)
		}
	})

	t.Run("density follows keyword order", func(t *testing.T) {
		s, mock := newMockStore(t)
		id := uuid.New()
		now := time.Now().UTC()

		// Postgres returns jsonb object keys shortest first.
		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = \\$1").
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow(id.String(), "T", "t", "body", []byte(`["golang","seo"]`), int64(1),
					[]byte(`{"seo":0,"golang":0}`), nil, now, now))

		p, err := s.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if got := p.KeywordDensity.Keywords(); len(got) != 2 || got[0] != "golang" || got[1] != "seo" {
			t.Errorf("density keywords = %q, want [golang seo]", got)
		}
	})

	t.Run("not found returns nil", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = \\$1").
			WillReturnRows(sqlmock.NewRows(postRowColumns))

		p, err := s.FindByID(context.Background(), uuid.New())
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if p != nil {
			t.Errorf("FindByID() = %+v, want nil", p)
		}
	})
}

func TestPostStore_Update(t *testing.T) {
	t.Run("writes content and statistics together", func(t *testing.T) {
		s, mock := newMockStore(t)
		id := uuid.New()
		now := time.Now().UTC()

		var density models.KeywordDensity
		density.Set("seo", 25)
		stats := models.Stats{WordCount: 4, KeywordDensity: density}

		mock.ExpectQuery("UPDATE posts SET").
			WithArgs("seo a b c", 4, []byte(`{"seo":25}`), id.String()).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow(id.String(), "T", "t", "seo a b c", []byte(`["seo"]`), int64(4), []byte(`{"seo":25}`), nil, now, now))

		p, err := s.Update(context.Background(), id, "seo a b c", stats)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if p.WordCount != 4 {
			t.Errorf("WordCount = %d, want 4", p.WordCount)
		}
		if v, _ := p.KeywordDensity.Get("seo"); v != 25 {
			t.Errorf("density[seo] = %v, want 25", v)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("missing post returns nil", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("UPDATE posts SET").
			WillReturnRows(sqlmock.NewRows(postRowColumns))

		p, err := s.Update(context.Background(), uuid.New(), "x", models.Stats{WordCount: 1})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if p != nil {
			t.Errorf("Update() = %+v, want nil", p)
		}
	})
}

func TestPostStore_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"deleted", 1, true},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			id := uuid.New()

			mock.ExpectExec("DELETE FROM posts WHERE id = \\$1").
				WithArgs(id.String()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			got, err := s.Delete(context.Background(), id)
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Delete() = %v, want %v", got, tt.want)
			}
		})
	}
}
