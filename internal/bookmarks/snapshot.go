package bookmarks

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic key derivation
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/storage"
	"github.com/newsstand-hq/newsstand-reader/pkg/httpclient"
)

const (
	snapshotKeyPrefix = "articleSnapshot:"
	maxHTMLBodyBytes  = 1 << 20 // 1 MiB
	maxSnapshotText   = 64 << 10
)

// Snapshot is the offline-readable capture of a bookmarked article page.
type Snapshot struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Text        string    `json:"text,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Snapshotter fetches article pages and persists extracted content so
// bookmarked articles stay readable offline. Capture failures never block
// the bookmark itself.
type Snapshotter struct {
	client httpclient.Client
	store  storage.Store
}

// NewSnapshotter builds a snapshotter over the given HTTP client and store.
func NewSnapshotter(client httpclient.Client, store storage.Store) *Snapshotter {
	return &Snapshotter{client: client, store: store}
}

// Capture fetches the article page and persists the extracted snapshot.
func (s *Snapshotter) Capture(ctx context.Context, article domain.Article) error {
	if s == nil || s.client == nil || s.store == nil {
		return nil
	}

	resp, err := s.client.Get(ctx, article.URL, nil)
	if err != nil {
		return fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("status %d fetching %s", resp.StatusCode(), article.URL)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	snap, err := extractSnapshot(article.URL, body)
	if err != nil {
		return err
	}
	// The article record itself is the fallback for pages without metadata.
	if snap.Title == "" {
		snap.Title = article.Title
	}
	if snap.Description == "" {
		snap.Description = article.Description
	}
	if snap.Text == "" {
		snap.Text = article.Content
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.store.Set(ctx, snapshotKey(article.URL), raw); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Drop removes the persisted snapshot for the URL, if any.
func (s *Snapshotter) Drop(ctx context.Context, url string) error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, snapshotKey(url))
}

// Load returns the snapshot for the URL, or ErrNotFound.
func (s *Snapshotter) Load(ctx context.Context, url string) (Snapshot, error) {
	if s == nil || s.store == nil {
		return Snapshot{}, domain.ErrNotFound
	}

	raw, found, err := s.store.Get(ctx, snapshotKey(url))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	if !found {
		return Snapshot{}, domain.ErrNotFound
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

// extractSnapshot pulls OG metadata and readable paragraph text from the page.
func extractSnapshot(url string, body []byte) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	snap := Snapshot{
		URL:        url,
		CapturedAt: time.Now().UTC(),
	}
	snap.Title = firstNonEmpty(
		extract(`meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	snap.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)
	snap.ImageURL = extract(`meta[property="og:image"]`)

	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(strings.Join(paragraphs, "\n\n")) < maxSnapshotText
	})
	snap.Text = strings.Join(paragraphs, "\n\n")
	if len(snap.Text) > maxSnapshotText {
		// Cut on a rune boundary so the stored text stays valid UTF-8.
		cut := maxSnapshotText
		for cut > 0 && !utf8.RuneStart(snap.Text[cut]) {
			cut--
		}
		snap.Text = snap.Text[:cut]
	}

	return snap, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// snapshotKey derives the storage key from the article URL.
func snapshotKey(url string) string {
	sum := sha1.Sum([]byte(url)) //nolint:gosec
	return snapshotKeyPrefix + hex.EncodeToString(sum[:])
}
