package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
)

// Package sources supplies article collections to the reader. A source is an
// opaque collaborator: the core neither retries nor caches its results.

// Supported source types.
const (
	TypeFixture = "fixture"
	TypeNewsAPI = "newsapi"
)

// HeadlinesParams narrows a top-headlines request. Zero values mean "no filter".
type HeadlinesParams struct {
	Country  string
	Category string
}

// Source returns article sequences for headline or free-text requests.
type Source interface {
	ID() string
	TopHeadlines(ctx context.Context, params HeadlinesParams) ([]domain.Article, error)
	Search(ctx context.Context, query string) ([]domain.Article, error)
}

// Config selects and parameterizes a source implementation.
type Config struct {
	Type           string
	FixtureFile    string
	NewsAPIBaseURL string
	NewsAPIKey     string
	Timeout        time.Duration
}

// New builds the configured source.
func New(cfg Config) (Source, error) {
	switch strings.TrimSpace(strings.ToLower(cfg.Type)) {
	case "", TypeFixture:
		return LoadFixture(cfg.FixtureFile)
	case TypeNewsAPI:
		return NewNewsAPISource(cfg.NewsAPIBaseURL, cfg.NewsAPIKey, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Type)
	}
}
