package sources

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/query"
)

const fixtureYAML = `
articles:
  - source:
      id: wire
      name: The Wire
    title: Chip plants expand
    description: New fabs announced across three regions
    url: https://example.com/chips
    category: technology
    published_at: "2025-06-01T10:00:00Z"
  - title: Cup final preview
    description: Rivals meet for the trophy
    url: https://example.com/final
    category: sports
    published_at: "2025-06-02T10:00:00Z"
`

const fixtureJSON = `{
  "articles": [
    {
      "title": "Budget passes",
      "url": "https://example.com/budget",
      "category": "politics",
      "publishedAt": "2025-06-03T10:00:00Z"
    }
  ]
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFixtureYAML(t *testing.T) {
	src, err := LoadFixture(writeFixture(t, "articles.yaml", fixtureYAML))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if src.ID() != TypeFixture {
		t.Fatalf("ID = %q, want fixture", src.ID())
	}

	all, err := src.TopHeadlines(context.Background(), HeadlinesParams{})
	if err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d articles, want 2", len(all))
	}
	if all[0].Source.Name != "The Wire" {
		t.Fatalf("source name = %q, want The Wire", all[0].Source.Name)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	src, err := LoadFixture(writeFixture(t, "articles.json", fixtureJSON))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	all, err := src.TopHeadlines(context.Background(), HeadlinesParams{})
	if err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if len(all) != 1 || all[0].URL != "https://example.com/budget" {
		t.Fatalf("unexpected articles %+v", all)
	}
}

func TestLoadFixtureErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"garbage", "articles.yaml: {{{{"},
		{"empty list", "articles: []\n"},
		{"wrong shape", "stories:\n  - title: nope\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFixture(writeFixture(t, "articles.yaml", tc.content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := LoadFixture(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFixtureTopHeadlinesFiltersByCategory(t *testing.T) {
	src, err := LoadFixture(writeFixture(t, "articles.yaml", fixtureYAML))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	got, err := src.TopHeadlines(context.Background(), HeadlinesParams{Category: "sports"})
	if err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/final" {
		t.Fatalf("unexpected articles %+v", got)
	}
}

func TestFixtureSearch(t *testing.T) {
	src := NewFixtureSource([]domain.Article{
		{URL: "https://example.com/a", Title: "Chip plants expand"},
		{URL: "https://example.com/b", Title: "Cup final preview", Description: "chip shots decide it"},
	})

	got, err := src.Search(context.Background(), "chip")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}

	if _, err := src.Search(context.Background(), "  "); !errors.Is(err, query.ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestNewSourceFactory(t *testing.T) {
	fixturePath := writeFixture(t, "articles.yaml", fixtureYAML)

	src, err := New(Config{Type: "fixture", FixtureFile: fixturePath})
	if err != nil {
		t.Fatalf("New fixture: %v", err)
	}
	if src.ID() != TypeFixture {
		t.Fatalf("ID = %q, want fixture", src.ID())
	}

	// Empty type defaults to fixture.
	if _, err := New(Config{FixtureFile: fixturePath}); err != nil {
		t.Fatalf("New default: %v", err)
	}

	if _, err := New(Config{Type: "newsapi"}); err == nil {
		t.Fatalf("expected error for newsapi without key")
	}
	if _, err := New(Config{Type: "rss"}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
