package feed_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"filmdash/internal/feed"
	"filmdash/internal/services"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	targets []string
	results []fetchResult
}

type fetchResult struct {
	data string
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, target string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	f.targets = append(f.targets, target)
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	res := f.results[idx]
	if res.err != nil {
		return nil, res.err
	}
	return []byte(res.data), nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newClient(fetcher feed.Fetcher, opts feed.Options) *feed.Client {
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	return feed.New(fetcher, opts)
}

func TestFetchFeedCachesWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{{data: rssFixture}}}
	client := newClient(fetcher, feed.Options{CacheTTL: time.Minute})

	for i := 0; i < 3; i++ {
		entries, err := client.FetchFeed(context.Background(), "alice")
		if err != nil {
			t.Fatalf("FetchFeed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("entries = %d", len(entries))
		}
	}
	if fetcher.count() != 1 {
		t.Fatalf("fetches = %d, want 1", fetcher.count())
	}
	if fetcher.targets[0] != "https://letterboxd.com/alice/rss/" {
		t.Fatalf("target = %q", fetcher.targets[0])
	}

	client.ClearCache("alice")
	if _, err := client.FetchFeed(context.Background(), "alice"); err != nil {
		t.Fatalf("FetchFeed after clear: %v", err)
	}
	if fetcher.count() != 2 {
		t.Fatalf("fetches after clear = %d, want 2", fetcher.count())
	}
}

func TestFetchFeedDoesNotCacheFailures(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{
		{err: errors.New("connection reset")},
		{data: rssFixture},
	}}
	client := newClient(fetcher, feed.Options{Attempts: 1})

	_, err := client.FetchFeed(context.Background(), "alice")
	if !errors.Is(err, services.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
	if _, err := client.FetchFeed(context.Background(), "alice"); err != nil {
		t.Fatalf("second FetchFeed: %v", err)
	}
	if fetcher.count() != 2 {
		t.Fatalf("fetches = %d, want 2", fetcher.count())
	}
}

func TestFetchFeedRetries(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{
		{err: &feed.RelayStatusError{Code: http.StatusServiceUnavailable}},
		{data: rssFixture},
	}}
	client := newClient(fetcher, feed.Options{Attempts: 3})

	if _, err := client.FetchFeed(context.Background(), "alice"); err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	if fetcher.count() != 2 {
		t.Fatalf("fetches = %d, want 2", fetcher.count())
	}
}

func TestFetchFeedStopsOnFinalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not xml", err: fmt.Errorf("%w: starts with \"<html\"", feed.ErrNotXML)},
		{name: "not found", err: &feed.RelayStatusError{Code: http.StatusNotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{results: []fetchResult{{err: tt.err}}}
			client := newClient(fetcher, feed.Options{Attempts: 3})
			_, err := client.FetchFeed(context.Background(), "alice")
			if !errors.Is(err, services.ErrFeedUnavailable) {
				t.Fatalf("expected ErrFeedUnavailable, got %v", err)
			}
			if fetcher.count() != 1 {
				t.Fatalf("fetches = %d, want 1", fetcher.count())
			}
		})
	}
}

func TestFetchFeedRequiresUsername(t *testing.T) {
	client := newClient(&fakeFetcher{results: []fetchResult{{data: rssFixture}}}, feed.Options{})
	if _, err := client.FetchFeed(context.Background(), "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGetEntriesSince(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{{data: rssFixture}}}
	client := newClient(fetcher, feed.Options{})

	entries, err := client.GetEntriesSince(context.Background(), "alice", "2000-01-01")
	if err != nil {
		t.Fatalf("GetEntriesSince: %v", err)
	}
	if len(entries) != 1 || entries[0].Film.Title != "Dune" {
		t.Fatalf("strict entries = %+v", entries)
	}

	entries, err = client.GetEntriesSince(context.Background(), "alice", "2024-02-02")
	if err != nil {
		t.Fatalf("GetEntriesSince: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries on the since date must be excluded, got %d", len(entries))
	}
}

func TestGetEntriesSincePermissive(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{{data: rssFixture}}}
	client := newClient(fetcher, feed.Options{Permissive: true})

	entries, err := client.GetEntriesSince(context.Background(), "alice", "2024-01-31")
	if err != nil {
		t.Fatalf("GetEntriesSince: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("permissive entries = %d, want 2", len(entries))
	}
	if got := entries[1].EffectiveDate(true); got != "2024-02-01" {
		t.Fatalf("publish date fallback = %q", got)
	}
}

func TestRecentDiaryEntries(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{{data: rssFixture}}}
	client := newClient(fetcher, feed.Options{})

	records, err := client.RecentDiaryEntries(context.Background(), "alice", 5)
	if err != nil {
		t.Fatalf("RecentDiaryEntries: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rating, ok := rec.Rating(); rec.Name() != "Dune" || !ok || rating != 4 || !rec.Live() {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestTestAccessReportsFailure(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{{err: &feed.RelayStatusError{Code: http.StatusForbidden}}}}
	client := newClient(fetcher, feed.Options{})
	if err := client.TestAccess(context.Background(), "alice"); err == nil {
		t.Fatal("expected access failure")
	}
}
