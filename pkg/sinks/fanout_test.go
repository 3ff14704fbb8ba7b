package sinks

import (
	"context"
	"errors"
	"testing"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
)

// stubSink records delivered events and optionally fails.
type stubSink struct {
	id     string
	err    error
	events []Event
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return "stub" }

func (s *stubSink) Send(_ context.Context, evt Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, evt)
	return nil
}

func TestFanoutSendAll(t *testing.T) {
	first := &stubSink{id: "first"}
	second := &stubSink{id: "second"}
	f := NewFanout([]Sink{first, second, nil})

	if f.Size() != 2 {
		t.Fatalf("Size = %d, want 2 after dropping nil", f.Size())
	}

	evt := NewBookmarkEvent(ActionBookmarkAdded, domain.Article{URL: "https://example.com/a"})
	n, err := f.Send(context.Background(), evt)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 2 {
		t.Fatalf("delivered to %d sinks, want 2", n)
	}
	if len(first.events) != 1 || first.events[0].ArticleURL != "https://example.com/a" {
		t.Fatalf("first sink events = %+v", first.events)
	}
}

func TestFanoutAggregatesErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := &stubSink{id: "failing", err: boom}
	healthy := &stubSink{id: "healthy"}
	f := NewFanout([]Sink{failing, healthy})

	n, err := f.Send(context.Background(), NewPreferencesEvent())
	if n != 1 {
		t.Fatalf("delivered to %d sinks, want 1", n)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if len(healthy.events) != 1 {
		t.Fatalf("healthy sink should still receive the event")
	}
}

func TestFanoutEmpty(t *testing.T) {
	var f *Fanout
	if n, err := f.Send(context.Background(), NewPreferencesEvent()); n != 0 || err != nil {
		t.Fatalf("nil fanout Send = (%d, %v), want (0, nil)", n, err)
	}
	if f.Size() != 0 {
		t.Fatalf("nil fanout Size = %d, want 0", f.Size())
	}

	empty := NewFanout(nil)
	if n, err := empty.Send(context.Background(), NewPreferencesEvent()); n != 0 || err != nil {
		t.Fatalf("empty fanout Send = (%d, %v), want (0, nil)", n, err)
	}
}

func TestEventConstructors(t *testing.T) {
	article := domain.Article{URL: "https://example.com/a", Title: "A"}

	evt := NewBookmarkEvent(ActionBookmarkRemoved, article)
	if evt.Action != ActionBookmarkRemoved || evt.ArticleURL != article.URL {
		t.Fatalf("bookmark event = %+v", evt)
	}
	if evt.Article == nil || evt.Article.Title != "A" {
		t.Fatalf("bookmark event missing article payload")
	}
	if evt.ID == "" || evt.OccurredAt.IsZero() {
		t.Fatalf("event missing id or timestamp")
	}

	theme := NewThemeEvent(domain.ThemeDark)
	if theme.Action != ActionThemeChanged || theme.ThemeMode != "dark" {
		t.Fatalf("theme event = %+v", theme)
	}

	if NewPreferencesEvent().ID == NewPreferencesEvent().ID {
		t.Fatalf("event ids must be unique")
	}
}
