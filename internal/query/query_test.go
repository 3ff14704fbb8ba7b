package query

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
)

func corpus() []domain.Article {
	articles := make([]domain.Article, 0, 10)
	for i := 0; i < 10; i++ {
		category := "technology"
		if i == 4 {
			category = "sports"
		}
		articles = append(articles, domain.Article{
			URL:         fmt.Sprintf("https://example.com/articles/%d", i),
			Title:       fmt.Sprintf("Story %d", i),
			Description: fmt.Sprintf("Coverage of story %d", i),
			Category:    category,
		})
	}
	return articles
}

func TestFilterByCategorySelectsOnlyMatches(t *testing.T) {
	articles := corpus()

	got := FilterByCategory(articles, "sports")
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	if got[0].URL != "https://example.com/articles/4" {
		t.Fatalf("unexpected article %q", got[0].URL)
	}
}

func TestFilterByCategoryEmptyReturnsAll(t *testing.T) {
	articles := corpus()

	got := FilterByCategory(articles, "")
	if !reflect.DeepEqual(got, articles) {
		t.Fatalf("empty category should return every article unchanged")
	}
	// The result must be a fresh slice, not the input.
	got[0].Title = "mutated"
	if articles[0].Title == "mutated" {
		t.Fatalf("filter returned the input slice itself")
	}
}

func TestFilterByCategoryIsCaseSensitive(t *testing.T) {
	if got := FilterByCategory(corpus(), "Sports"); len(got) != 0 {
		t.Fatalf("got %d articles for mismatched case, want 0", len(got))
	}
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	articles := []domain.Article{
		{URL: "https://example.com/a", Title: "AI breakthrough announced", Description: "Labs report progress"},
		{URL: "https://example.com/b", Title: "Market report", Description: "Retail and AI spending climb"},
		{URL: "https://example.com/c", Title: "Transfer window", Description: "Club signs striker"},
	}

	got, err := Search(articles, "AI")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].URL != "https://example.com/a" || got[1].URL != "https://example.com/b" {
		t.Fatalf("results out of order: %q, %q", got[0].URL, got[1].URL)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	articles := []domain.Article{
		{URL: "https://example.com/a", Title: "CLIMATE Summit Opens"},
	}

	got, err := Search(articles, "climate")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
}

func TestSearchTrimsQueryWhitespace(t *testing.T) {
	articles := []domain.Article{
		{URL: "https://example.com/a", Title: "Budget vote delayed"},
	}

	got, err := Search(articles, "  budget  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
}

func TestSearchBlankQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := Search(corpus(), q); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("Search(%q) err = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestSearchSkipsEmptyDescription(t *testing.T) {
	articles := []domain.Article{
		{URL: "https://example.com/a", Title: "Headline only"},
	}

	got, err := Search(articles, "missing")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d results, want 0", len(got))
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	articles := corpus()
	snapshot := append([]domain.Article(nil), articles...)

	if _, err := Search(articles, "story"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(articles, snapshot) {
		t.Fatalf("input corpus was mutated")
	}
}
