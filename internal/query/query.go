package query

import (
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
)

// Package query filters article collections in memory. Both operations are
// stable filters: they never mutate their input and preserve its relative
// order in a fresh slice.

// ErrEmptyQuery is returned when Search receives a blank query; searching
// with no terms is a caller error rather than a match-everything request.
var ErrEmptyQuery = errors.New("search query is empty")

// FilterByCategory retains articles whose category equals the given value,
// matching exact and case-sensitive. An empty category returns a copy of the
// input unchanged.
func FilterByCategory(articles []domain.Article, category string) []domain.Article {
	if category == "" {
		return append([]domain.Article(nil), articles...)
	}
	return lo.Filter(articles, func(a domain.Article, _ int) bool {
		return a.Category == category
	})
}

// Search matches the query as a case-insensitive substring of the title or
// description; articles without a description match on title only.
func Search(articles []domain.Article, q string) ([]domain.Article, error) {
	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" {
		return nil, ErrEmptyQuery
	}

	return lo.Filter(articles, func(a domain.Article, _ int) bool {
		if strings.Contains(strings.ToLower(a.Title), q) {
			return true
		}
		return a.Description != "" && strings.Contains(strings.ToLower(a.Description), q)
	}), nil
}
