package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
	"github.com/newsstand-hq/newsstand-reader/internal/storage"
)

// storageKey holds the chosen theme mode as a plain string.
const storageKey = "colorScheme"

// Palette is the resolved set of color tokens for a theme mode.
type Palette struct {
	Primary        string `json:"primary"`
	PrimaryLight   string `json:"primaryLight"`
	Accent         string `json:"accent"`
	Background     string `json:"background"`
	CardBackground string `json:"cardBackground"`
	Text           string `json:"text"`
	TextSecondary  string `json:"textSecondary"`
	Border         string `json:"border"`
	Success        string `json:"success"`
	Warning        string `json:"warning"`
	Error          string `json:"error"`
	Shadow         string `json:"shadow"`
	IsDark         bool   `json:"isDark"`
}

var lightPalette = Palette{
	Primary:        "#0066CC",
	PrimaryLight:   "#CCE0FF",
	Accent:         "#E63946",
	Background:     "#F8F9FA",
	CardBackground: "#FFFFFF",
	Text:           "#212529",
	TextSecondary:  "#6C757D",
	Border:         "#DEE2E6",
	Success:        "#28A745",
	Warning:        "#FFC107",
	Error:          "#DC3545",
	Shadow:         "#000000",
	IsDark:         false,
}

var darkPalette = Palette{
	Primary:        "#3F8CFF",
	PrimaryLight:   "#2A4056",
	Accent:         "#E63946",
	Background:     "#121212",
	CardBackground: "#1E1E1E",
	Text:           "#F8F9FA",
	TextSecondary:  "#ADB5BD",
	Border:         "#343A40",
	Success:        "#2ECC71",
	Warning:        "#F39C12",
	Error:          "#E74C3C",
	Shadow:         "#000000",
	IsDark:         true,
}

// Resolve maps a mode plus the current system appearance to a concrete
// palette. With mode == system the palette tracks the appearance signal, so
// callers must re-resolve whenever that signal changes.
func Resolve(mode domain.ThemeMode, appearance domain.Appearance) Palette {
	switch mode {
	case domain.ThemeDark:
		return darkPalette
	case domain.ThemeLight:
		return lightPalette
	default:
		if appearance == domain.AppearanceDark {
			return darkPalette
		}
		return lightPalette
	}
}

// Manager owns the persisted theme mode. The in-memory mode always switches
// immediately; persistence failures are logged and do not block the switch.
type Manager struct {
	store storage.Store
	log   logger.Logger

	mu   sync.Mutex
	mode domain.ThemeMode
}

// NewManager builds a theme manager, reading back any persisted mode.
// Absent or unrecognized persisted values resolve to system.
func NewManager(ctx context.Context, store storage.Store, log logger.Logger) *Manager {
	m := &Manager{
		store: store,
		log:   logger.Ensure(log),
		mode:  domain.ThemeSystem,
	}

	raw, found, err := store.Get(ctx, storageKey)
	if err != nil {
		m.log.WarnObj("theme mode read failed, defaulting to system", "storage_error", map[string]any{
			"key":   storageKey,
			"error": err.Error(),
		})
		return m
	}
	if found {
		if mode := domain.ThemeMode(raw); mode.Valid() {
			m.mode = mode
		}
	}
	return m
}

// Mode returns the currently selected theme mode.
func (m *Manager) Mode() domain.ThemeMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Resolve returns the active palette for the current mode and the given
// system appearance signal.
func (m *Manager) Resolve(appearance domain.Appearance) Palette {
	return Resolve(m.Mode(), appearance)
}

// SetMode switches the mode in memory and persists it fire-and-forget.
func (m *Manager) SetMode(ctx context.Context, mode domain.ThemeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown theme mode %q", mode)
	}

	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()

	if err := m.store.Set(ctx, storageKey, []byte(mode)); err != nil {
		m.log.WarnObj("theme mode persist failed", "storage_error", map[string]any{
			"key":   storageKey,
			"mode":  string(mode),
			"error": err.Error(),
		})
	}
	return nil
}

// Toggle switches to dark when the currently resolved palette is light and
// vice versa. This pins the mode away from system.
func (m *Manager) Toggle(ctx context.Context, appearance domain.Appearance) domain.ThemeMode {
	next := domain.ThemeDark
	if m.Resolve(appearance).IsDark {
		next = domain.ThemeLight
	}
	_ = m.SetMode(ctx, next)
	return next
}
