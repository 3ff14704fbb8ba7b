package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/query"
)

// fixtureSource serves a fixed article corpus loaded from a file. It stands in
// for the remote API in development and demo deployments.
type fixtureSource struct {
	articles []domain.Article
}

// NewFixtureSource builds a source over an in-memory corpus.
func NewFixtureSource(articles []domain.Article) Source {
	return &fixtureSource{articles: append([]domain.Article(nil), articles...)}
}

// LoadFixture reads the article corpus from a YAML or JSON file.
func LoadFixture(path string) (Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("fixture file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture file: %w", err)
	}

	articles, err := parseFixture(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, errors.New("fixture file contains no articles")
	}

	return NewFixtureSource(articles), nil
}

func parseFixture(data []byte, ext string) ([]domain.Article, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	type fixtureFile struct {
		Articles []domain.Article `json:"articles" yaml:"articles"`
	}

	decoders := []struct {
		name string
		exts []string
		fn   func([]byte, any) error
	}{
		{name: "yaml", exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
		{name: "json", exts: []string{".json"}, fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && !contains(d.exts, ext) {
			continue
		}
		var file fixtureFile
		if err := d.fn(data, &file); err == nil && len(file.Articles) > 0 {
			return file.Articles, nil
		}
	}

	return nil, errors.New("fixture file format not recognized (expected YAML or JSON)")
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (f *fixtureSource) ID() string { return TypeFixture }

// TopHeadlines filters the corpus by category when one is given; the country
// filter is a no-op for fixtures, which carry no country attribution.
func (f *fixtureSource) TopHeadlines(_ context.Context, params HeadlinesParams) ([]domain.Article, error) {
	return query.FilterByCategory(f.articles, params.Category), nil
}

// Search matches the query against each article's title and description.
func (f *fixtureSource) Search(_ context.Context, q string) ([]domain.Article, error) {
	return query.Search(f.articles, q)
}
