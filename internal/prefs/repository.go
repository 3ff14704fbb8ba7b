package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
	"github.com/newsstand-hq/newsstand-reader/internal/storage"
)

// storageKey holds the single serialized preferences record.
const storageKey = "userPreferences"

// Repository owns the persisted user preferences record. It keeps the current
// record in memory so reads after writes are consistent within the process,
// and serializes updates through a single mutex.
type Repository struct {
	store storage.Store
	log   logger.Logger

	mu      sync.Mutex
	current *domain.Preferences
}

// NewRepository builds a preferences repository on the given store.
func NewRepository(store storage.Store, log logger.Logger) *Repository {
	return &Repository{
		store: store,
		log:   logger.Ensure(log),
	}
}

// Load returns the current preferences. When no record is persisted yet this
// counts as first run: defaults are returned and written back so storage
// holds an explicit record afterwards. Undecodable blobs fall back to
// defaults rather than failing.
func (r *Repository) Load(ctx context.Context) (domain.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		return clone(*r.current), nil
	}

	raw, found, err := r.store.Get(ctx, storageKey)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("read preferences: %w", err)
	}

	if !found {
		defaults := domain.DefaultPreferences()
		if err := r.persistLocked(ctx, defaults); err != nil {
			// First-run write failure is non-fatal; defaults still apply.
			r.log.WarnObj("first-run preferences write failed", "storage_error", map[string]any{
				"key":   storageKey,
				"error": err.Error(),
			})
		}
		r.current = &defaults
		return clone(defaults), nil
	}

	record := domain.DefaultPreferences()
	if err := json.Unmarshal(raw, &record); err != nil {
		r.log.WarnObj("preferences blob undecodable, using defaults", "decode_error", map[string]any{
			"key":   storageKey,
			"error": err.Error(),
		})
		record = domain.DefaultPreferences()
	}
	record = normalize(record)

	r.current = &record
	return clone(record), nil
}

// Update merges the patch onto the current record, persists the result as a
// single blob, and returns the merged record. Nil patch fields retain their
// prior values; Categories replaces the stored set wholesale when present.
func (r *Repository) Update(ctx context.Context, patch domain.PreferencesPatch) (domain.Preferences, error) {
	// Ensure the current record is loaded before merging.
	if _, err := r.Load(ctx); err != nil {
		return domain.Preferences{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	merged := *r.current
	if patch.TextSize != nil {
		if !patch.TextSize.Valid() {
			return domain.Preferences{}, fmt.Errorf("invalid text size %q", *patch.TextSize)
		}
		merged.TextSize = *patch.TextSize
	}
	if patch.Region != nil {
		merged.Region = *patch.Region
	}
	if patch.Notifications != nil {
		merged.Notifications = *patch.Notifications
	}
	if patch.Categories != nil {
		merged.Categories = append([]string(nil), (*patch.Categories)...)
	}

	if err := r.persistLocked(ctx, merged); err != nil {
		return domain.Preferences{}, err
	}
	r.current = &merged
	return clone(merged), nil
}

func (r *Repository) persistLocked(ctx context.Context, record domain.Preferences) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := r.store.Set(ctx, storageKey, raw); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// normalize fills in defaults for fields a partially-written record may lack.
func normalize(record domain.Preferences) domain.Preferences {
	defaults := domain.DefaultPreferences()
	if !record.TextSize.Valid() {
		record.TextSize = defaults.TextSize
	}
	if record.Region == "" {
		record.Region = defaults.Region
	}
	if record.Categories == nil {
		record.Categories = defaults.Categories
	}
	return record
}

func clone(record domain.Preferences) domain.Preferences {
	record.Categories = append([]string(nil), record.Categories...)
	return record
}
