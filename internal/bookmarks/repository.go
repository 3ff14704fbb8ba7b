package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
	"github.com/newsstand-hq/newsstand-reader/internal/storage"
)

// storageKey holds the full bookmark collection as one serialized blob.
const storageKey = "bookmarkedArticles"

// Repository owns the persisted bookmark collection. The collection is an
// insertion-ordered sequence of articles deduplicated by URL, always read and
// written whole. Writes serialize through a single mutex so two overlapping
// toggles cannot lose an update.
type Repository struct {
	store storage.Store
	log   logger.Logger
	snaps *Snapshotter

	mu sync.Mutex
}

// NewRepository builds a bookmark repository on the given store. The
// snapshotter is optional; when present each new bookmark also captures an
// offline snapshot of the article page.
func NewRepository(store storage.Store, snaps *Snapshotter, log logger.Logger) *Repository {
	return &Repository{
		store: store,
		log:   logger.Ensure(log),
		snaps: snaps,
	}
}

// List returns the bookmarked articles in insertion order. An absent or
// corrupt blob yields an empty list; decode failures are logged, not surfaced.
func (r *Repository) List(ctx context.Context) ([]domain.Article, error) {
	return r.load(ctx)
}

// Contains reports whether an article with the same URL is bookmarked.
func (r *Repository) Contains(ctx context.Context, article domain.Article) (bool, error) {
	current, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(current, article.URL) >= 0, nil
}

// Toggle flips the bookmark state of the article and returns the new state.
func (r *Repository) Toggle(ctx context.Context, article domain.Article) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	if idx := indexOf(current, article.URL); idx >= 0 {
		updated := append(current[:idx:idx], current[idx+1:]...)
		if err := r.persist(ctx, updated); err != nil {
			return true, err
		}
		r.dropSnapshot(ctx, article)
		return false, nil
	}

	updated := append(current, article)
	if err := r.persist(ctx, updated); err != nil {
		return false, err
	}
	r.captureSnapshot(ctx, article)
	return true, nil
}

// Add bookmarks the article; already-present URLs are a no-op.
func (r *Repository) Add(ctx context.Context, article domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx)
	if err != nil {
		return err
	}
	if indexOf(current, article.URL) >= 0 {
		return nil
	}
	if err := r.persist(ctx, append(current, article)); err != nil {
		return err
	}
	r.captureSnapshot(ctx, article)
	return nil
}

// Remove deletes the bookmark with the given URL; absent URLs are a no-op.
func (r *Repository) Remove(ctx context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(current, url)
	if idx < 0 {
		return nil
	}
	if err := r.persist(ctx, append(current[:idx:idx], current[idx+1:]...)); err != nil {
		return err
	}
	r.dropSnapshot(ctx, domain.Article{URL: url})
	return nil
}

// ByURL returns the bookmarked article with the given URL, or ErrNotFound.
func (r *Repository) ByURL(ctx context.Context, url string) (domain.Article, error) {
	current, err := r.load(ctx)
	if err != nil {
		return domain.Article{}, err
	}
	if idx := indexOf(current, url); idx >= 0 {
		return current[idx], nil
	}
	return domain.Article{}, domain.ErrNotFound
}

func (r *Repository) load(ctx context.Context) ([]domain.Article, error) {
	raw, found, err := r.store.Get(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	if !found {
		return []domain.Article{}, nil
	}

	var articles []domain.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		// Fail open: a corrupt collection reads as empty.
		r.log.WarnObj("bookmark blob undecodable, treating as empty", "decode_error", map[string]any{
			"key":   storageKey,
			"error": err.Error(),
		})
		return []domain.Article{}, nil
	}
	return articles, nil
}

func (r *Repository) persist(ctx context.Context, articles []domain.Article) error {
	raw, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := r.store.Set(ctx, storageKey, raw); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	return nil
}

func (r *Repository) captureSnapshot(ctx context.Context, article domain.Article) {
	if r.snaps == nil {
		return
	}
	if err := r.snaps.Capture(ctx, article); err != nil {
		r.log.WarnObj("offline snapshot capture failed", "snapshot_error", map[string]any{
			"url":   article.URL,
			"error": err.Error(),
		})
	}
}

func (r *Repository) dropSnapshot(ctx context.Context, article domain.Article) {
	if r.snaps == nil {
		return
	}
	if err := r.snaps.Drop(ctx, article.URL); err != nil {
		r.log.WarnObj("offline snapshot delete failed", "snapshot_error", map[string]any{
			"url":   article.URL,
			"error": err.Error(),
		})
	}
}

// indexOf locates the entry with the given URL, matching exact and
// case-sensitive; -1 when absent.
func indexOf(articles []domain.Article, url string) int {
	for i, a := range articles {
		if a.URL == url {
			return i
		}
	}
	return -1
}
