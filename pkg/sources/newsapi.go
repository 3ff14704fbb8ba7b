package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/query"
	"github.com/newsstand-hq/newsstand-reader/pkg/httpclient"
)

const (
	defaultNewsAPIBaseURL = "https://newsapi.org/v2"
	defaultNewsAPITimeout = 15 * time.Second
	newsAPIPageSize       = 20
)

// newsAPISource fetches live articles from the NewsAPI v2 endpoints.
type newsAPISource struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

// NewNewsAPISource builds a network-backed source against NewsAPI.
func NewNewsAPISource(baseURL, apiKey string, timeout time.Duration) (Source, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("newsapi source requires an api key")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultNewsAPIBaseURL
	}
	if timeout <= 0 {
		timeout = defaultNewsAPITimeout
	}

	return &newsAPISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  httpclient.NewRestyHTTPClient(timeout),
	}, nil
}

func (n *newsAPISource) ID() string { return TypeNewsAPI }

// apiResponse is the NewsAPI envelope shared by both endpoints.
type apiResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []domain.Article `json:"articles"`
}

// TopHeadlines calls /top-headlines with optional country and category filters.
func (n *newsAPISource) TopHeadlines(ctx context.Context, params HeadlinesParams) ([]domain.Article, error) {
	queryParams := map[string]string{
		"pageSize": fmt.Sprintf("%d", newsAPIPageSize),
	}
	if params.Country != "" {
		queryParams["country"] = params.Country
	}
	if params.Category != "" {
		queryParams["category"] = params.Category
	}

	articles, err := n.call(ctx, "/top-headlines", queryParams)
	if err != nil {
		return nil, err
	}

	// NewsAPI does not echo the category back on each article; stamp the
	// requested one so downstream category matching stays exact.
	if params.Category != "" {
		for i := range articles {
			articles[i].Category = params.Category
		}
	}
	return articles, nil
}

// Search calls /everything with the free-text query. Blank queries are a
// caller error, reported the same way as the fixture source.
func (n *newsAPISource) Search(ctx context.Context, q string) ([]domain.Article, error) {
	if strings.TrimSpace(q) == "" {
		return nil, query.ErrEmptyQuery
	}
	return n.call(ctx, "/everything", map[string]string{
		"q":        q,
		"pageSize": fmt.Sprintf("%d", newsAPIPageSize),
	})
}

func (n *newsAPISource) call(ctx context.Context, path string, params map[string]string) ([]domain.Article, error) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("X-Api-Key", n.apiKey).
		Get(n.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode newsapi response: %w", err)
	}
	if resp.IsError() || envelope.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %d (%s): %s", resp.StatusCode(), envelope.Code, envelope.Message)
	}
	return envelope.Articles, nil
}
