package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"filmdash/internal/tmdb"
)

type fakeSearcher struct {
	mu       sync.Mutex
	movies   map[string][]tmdb.SearchResult
	shows    map[string][]tmdb.SearchResult
	err      error
	delay    time.Duration
	calls    atomic.Int32
	tvCalls  atomic.Int32
	lastYear int
}

func (f *fakeSearcher) SearchMovie(_ context.Context, title string, year int) (*tmdb.Response, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastYear = year
	if f.err != nil {
		return nil, f.err
	}
	return &tmdb.Response{Results: f.movies[title]}, nil
}

func (f *fakeSearcher) SearchTV(_ context.Context, title string, _ int) (*tmdb.Response, error) {
	f.tvCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &tmdb.Response{Results: f.shows[title]}, nil
}

func (f *fakeSearcher) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type recordingNotifier struct {
	mu      sync.Mutex
	reasons []string
}

func (n *recordingNotifier) NotifyEnrichmentUnavailable(_ context.Context, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.reasons)
}

func TestResolveCachesFirstResult(t *testing.T) {
	searcher := &fakeSearcher{movies: map[string][]tmdb.SearchResult{
		"Heat": {{ID: 949, PosterPath: "/heat.jpg", Overview: "LA crime"}},
	}}
	enricher := tmdb.NewEnricher(searcher, nil)

	first := enricher.Resolve(context.Background(), "Heat", "1995")
	second := enricher.Resolve(context.Background(), "Heat", "1995")

	if searcher.calls.Load() != 1 {
		t.Fatalf("expected one network call, got %d", searcher.calls.Load())
	}
	if first.Outcome != tmdb.OutcomeOK || first.TMDBID == nil || *first.TMDBID != 949 || first.MediaType != "movie" {
		t.Fatalf("unexpected result: %+v", first)
	}
	if second.TMDBID != first.TMDBID || second.PosterPath != first.PosterPath {
		t.Fatalf("cached result differs: %+v vs %+v", second, first)
	}
	if searcher.lastYear != 1995 {
		t.Fatalf("year filter = %d", searcher.lastYear)
	}
}

func TestResolveFallsBackToTV(t *testing.T) {
	searcher := &fakeSearcher{shows: map[string][]tmdb.SearchResult{
		"Chernobyl": {{ID: 87108, PosterPath: "/c.jpg"}},
	}}
	enricher := tmdb.NewEnricher(searcher, nil)

	result := enricher.Resolve(context.Background(), "Chernobyl", "2019")
	if result.Outcome != tmdb.OutcomeOK || result.MediaType != "tv" || *result.TMDBID != 87108 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestResolveNoResultsIsCached(t *testing.T) {
	searcher := &fakeSearcher{}
	enricher := tmdb.NewEnricher(searcher, nil)

	for i := 0; i < 3; i++ {
		result := enricher.Resolve(context.Background(), "Obscure", "1901")
		if result.Outcome != tmdb.OutcomeNoResults || result.TMDBID != nil || result.PosterPath != "" {
			t.Fatalf("unexpected result: %+v", result)
		}
	}
	if searcher.calls.Load() != 1 || searcher.tvCalls.Load() != 1 {
		t.Fatalf("expected one movie and one tv call, got %d/%d", searcher.calls.Load(), searcher.tvCalls.Load())
	}
}

func TestResolveWithoutUsableKeyNeverSearches(t *testing.T) {
	for _, key := range []string{"", "  ", "your_actual_api_key_here", "YOUR_TMDB_API_KEY"} {
		if tmdb.UsableAPIKey(key) {
			t.Fatalf("key %q should be unusable", key)
		}
	}
	if !tmdb.UsableAPIKey("abc123") {
		t.Fatal("real key reported unusable")
	}

	notifier := &recordingNotifier{}
	enricher := tmdb.NewEnricher(nil, nil, tmdb.WithNotifier(notifier))
	result := enricher.Resolve(context.Background(), "Heat", "1995")
	if result.Outcome != tmdb.OutcomeNoAPIKey || result.PosterPath != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if enricher.Online() {
		t.Fatal("enricher without key should report offline")
	}
	if notifier.count() != 1 {
		t.Fatalf("expected one notice, got %d", notifier.count())
	}
}

func TestResolveClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want tmdb.Outcome
	}{
		{"unauthorized", &tmdb.StatusError{Code: http.StatusUnauthorized}, tmdb.OutcomeInvalidAPIKey},
		{"server error", &tmdb.StatusError{Code: http.StatusBadGateway}, tmdb.OutcomeConnectivity},
		{"transport", errors.New("dial tcp: connection refused"), tmdb.OutcomeConnectivity},
		{"timeout", context.DeadlineExceeded, tmdb.OutcomeConnectivity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			searcher := &fakeSearcher{err: tt.err}
			enricher := tmdb.NewEnricher(searcher, nil, tmdb.WithNotifier(notifier))

			result := enricher.Resolve(context.Background(), "Heat", "1995")
			if result.Outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", result.Outcome, tt.want)
			}
			if enricher.Online() {
				t.Fatal("expected offline after failure")
			}
			if notifier.count() != 1 {
				t.Fatalf("expected one notice, got %d", notifier.count())
			}
		})
	}
}

func TestResolveRecoversAfterConnectivityFailure(t *testing.T) {
	searcher := &fakeSearcher{
		err:    errors.New("network down"),
		movies: map[string][]tmdb.SearchResult{"Heat": {{ID: 949}}},
	}
	enricher := tmdb.NewEnricher(searcher, nil)

	if got := enricher.Resolve(context.Background(), "Heat", "1995"); got.Outcome != tmdb.OutcomeConnectivity {
		t.Fatalf("outcome = %s", got.Outcome)
	}
	searcher.setErr(nil)
	if got := enricher.Resolve(context.Background(), "Heat", "1995"); got.Outcome != tmdb.OutcomeOK {
		t.Fatalf("failure should not be cached, got %s", got.Outcome)
	}
	if !enricher.Online() {
		t.Fatal("expected online after success")
	}
}

func TestResolveCollapsesConcurrentLookups(t *testing.T) {
	searcher := &fakeSearcher{
		delay:  20 * time.Millisecond,
		movies: map[string][]tmdb.SearchResult{"Heat": {{ID: 949}}},
	}
	enricher := tmdb.NewEnricher(searcher, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := enricher.Resolve(context.Background(), "Heat", "1995"); got.Outcome != tmdb.OutcomeOK {
				t.Errorf("outcome = %s", got.Outcome)
			}
		}()
	}
	wg.Wait()
	if searcher.calls.Load() != 1 {
		t.Fatalf("expected one network call, got %d", searcher.calls.Load())
	}
}

func TestClearCacheForcesRefetch(t *testing.T) {
	searcher := &fakeSearcher{movies: map[string][]tmdb.SearchResult{"Heat": {{ID: 949}}}}
	enricher := tmdb.NewEnricher(searcher, nil)
	enricher.Resolve(context.Background(), "Heat", "1995")
	enricher.ClearCache()
	enricher.Resolve(context.Background(), "Heat", "1995")
	if searcher.calls.Load() != 2 {
		t.Fatalf("expected refetch after clear, got %d calls", searcher.calls.Load())
	}
}
