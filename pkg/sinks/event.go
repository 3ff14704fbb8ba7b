package sinks

import (
	"time"

	"github.com/google/uuid"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
)

// Action names what changed in the reader's local state.
type Action string

const (
	ActionBookmarkAdded      Action = "bookmark_added"
	ActionBookmarkRemoved    Action = "bookmark_removed"
	ActionPreferencesUpdated Action = "preferences_updated"
	ActionThemeChanged       Action = "theme_changed"
)

// Event is the change notification payload delivered downstream.
type Event struct {
	ID         string          `json:"id"`
	Action     Action          `json:"action"`
	ArticleURL string          `json:"article_url,omitempty"`
	Article    *domain.Article `json:"article,omitempty"`
	ThemeMode  string          `json:"theme_mode,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewBookmarkEvent builds an added/removed event for the article.
func NewBookmarkEvent(action Action, article domain.Article) Event {
	evt := newEvent(action)
	evt.ArticleURL = article.URL
	evt.Article = &article
	return evt
}

// NewPreferencesEvent builds a preferences-updated event. The record itself
// stays local; only the fact of the change is published.
func NewPreferencesEvent() Event {
	return newEvent(ActionPreferencesUpdated)
}

// NewThemeEvent builds a theme-changed event carrying the new mode.
func NewThemeEvent(mode domain.ThemeMode) Event {
	evt := newEvent(ActionThemeChanged)
	evt.ThemeMode = string(mode)
	return evt
}

func newEvent(action Action) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}
