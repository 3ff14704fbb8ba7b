package domain

import "errors"

// Domain contains core models shared across repositories and services.

// ErrNotFound is returned when a lookup for a specific article yields nothing.
var ErrNotFound = errors.New("article not found")

// ArticleSource identifies the outlet an article came from.
type ArticleSource struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// Article is a single news item. Two articles are the same entity iff their
// URL values are equal (case-sensitive); no other field participates in
// identity. Articles are supplied by sources and never constructed here.
type Article struct {
	Source      ArticleSource `json:"source" yaml:"source"`
	Author      string        `json:"author,omitempty" yaml:"author,omitempty"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string        `json:"url" yaml:"url"`
	ImageURL    string        `json:"urlToImage,omitempty" yaml:"image_url,omitempty"`
	PublishedAt string        `json:"publishedAt" yaml:"published_at"`
	Content     string        `json:"content,omitempty" yaml:"content,omitempty"`
	Category    string        `json:"category,omitempty" yaml:"category,omitempty"`
}

// TextSize is the reader's article text scale.
type TextSize string

const (
	TextSizeSmall  TextSize = "small"
	TextSizeMedium TextSize = "medium"
	TextSizeLarge  TextSize = "large"
)

// Valid reports whether the value is one of the known text sizes.
func (s TextSize) Valid() bool {
	switch s {
	case TextSizeSmall, TextSizeMedium, TextSizeLarge:
		return true
	}
	return false
}

// Preferences is the user's persisted settings record.
type Preferences struct {
	TextSize      TextSize `json:"textSize"`
	Region        string   `json:"region"`
	Notifications bool     `json:"notifications"`
	Categories    []string `json:"categories"`
}

// DefaultPreferences returns the record used on first run and as the
// fallback when the persisted blob cannot be decoded.
func DefaultPreferences() Preferences {
	return Preferences{
		TextSize:      TextSizeMedium,
		Region:        "us",
		Notifications: true,
		Categories:    []string{"general", "technology", "business"},
	}
}

// PreferencesPatch is a partial update; nil fields retain the prior value.
// Categories, when present, replaces the stored set wholesale.
type PreferencesPatch struct {
	TextSize      *TextSize `json:"textSize,omitempty"`
	Region        *string   `json:"region,omitempty"`
	Notifications *bool     `json:"notifications,omitempty"`
	Categories    *[]string `json:"categories,omitempty"`
}

// ThemeMode selects how the active palette is resolved.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// Valid reports whether the value is one of the known theme modes.
func (m ThemeMode) Valid() bool {
	switch m {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Appearance is the external system appearance signal, light or dark.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// Category is a static catalog entry; not persisted.
type Category struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ImageURL string `json:"imageUrl" yaml:"image_url"`
}
