package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"filmdash/internal/api"
	"filmdash/internal/export"
	"filmdash/internal/feed"
	"filmdash/internal/reconcile"
	"filmdash/internal/session"
	"filmdash/internal/tmdb"
)

const feedDoc = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:letterboxd="https://letterboxd.com">
<channel>
<title>alice</title>
<link>https://letterboxd.com/alice/</link>
<description>feed</description>
<item>
<title>Dune, 2021 - ★★★★</title>
<link>https://letterboxd.com/alice/film/dune-2021/</link>
<pubDate>Fri, 02 Feb 2024 21:00:00 +0000</pubDate>
<letterboxd:watchedDate>2024-02-02</letterboxd:watchedDate>
<letterboxd:filmTitle>Dune</letterboxd:filmTitle>
<letterboxd:filmYear>2021</letterboxd:filmYear>
</item>
</channel>
</rss>`

type stubFetcher struct{ err error }

func (f *stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(feedDoc), nil
}

func newServer(t *testing.T, token string, fetcher *stubFetcher) *api.Server {
	t.Helper()
	srv, _ := newServerWithSession(t, token, fetcher)
	return srv
}

func newServerWithSession(t *testing.T, token string, fetcher *stubFetcher) (*api.Server, *session.Session) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"users.json":        `{"users":[{"id":"alice","displayName":"Alice","folder":"alice"}]}`,
		"alice/profile.csv": "Username,Favorite Films\nalice,https://boxd.it/heat\n",
		"alice/diary.csv":   "Date,Name,Year,Letterboxd URI,Rating,Rewatch,Tags,Watched Date\n2024-01-01,Heat,1995,https://boxd.it/heat,4,,,2024-01-01\n2023-06-01,Alien,1979,https://boxd.it/alien,,,,2023-06-01\n",
		"alice/ratings.csv": "Date,Name,Year,Letterboxd URI,Rating\n2024-01-01,Heat,1995,https://boxd.it/heat,4\n",
	}
	for rel, body := range files {
		if err := afero.WriteFile(fsys, "export/"+rel, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	sess := session.New(session.Deps{
		Repository: export.NewRepository(fsys, "export", nil),
		Enricher:   tmdb.NewEnricher(nil, nil),
		Feed:       feed.New(fetcher, feed.Options{CacheTTL: time.Minute}),
		Reconcile:  reconcile.DefaultOptions(),
		Now:        func() time.Time { return time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC) },
	})
	return api.NewServer("127.0.0.1:0", token, sess, nil), sess
}

func do(t *testing.T, srv *api.Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func selectAlice(t *testing.T, srv *api.Server) {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/profiles/alice/select", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProfilesAndSelect(t *testing.T) {
	srv := newServer(t, "", &stubFetcher{})

	rec := do(t, srv, http.MethodGet, "/api/profiles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	profiles := decode[api.ProfilesResponse](t, rec)
	if len(profiles.Profiles) != 1 || profiles.Profiles[0].ID != "alice" || profiles.Current != "" {
		t.Fatalf("profiles = %+v", profiles)
	}

	rec = do(t, srv, http.MethodPost, "/api/profiles/alice/select", nil)
	selected := decode[api.SelectResponse](t, rec)
	if !selected.Selected || selected.DisplayName != "alice" {
		t.Fatalf("select = %+v", selected)
	}

	rec = do(t, srv, http.MethodPost, "/api/profiles/zed/select", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown profile status = %d", rec.Code)
	}
}

func TestViewEndpoint(t *testing.T) {
	srv, sess := newServerWithSession(t, "", &stubFetcher{})

	if rec := do(t, srv, http.MethodGet, "/api/views/diary", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("view before select status = %d", rec.Code)
	}
	selectAlice(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/views/diary?sort=name-asc&posters=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[api.ViewResponse](t, rec)
	if resp.Page.Total != 2 || resp.Page.Items[0]["Name"] != "Alien" {
		t.Fatalf("page = %+v", resp.Page)
	}
	if resp.State.Sort.String() != "name-asc" || len(resp.Posters) != 2 || !resp.Posters[0].Fallback {
		t.Fatalf("view response = %+v", resp)
	}

	rec = do(t, srv, http.MethodGet, "/api/views/diary?filter=heat", nil)
	if resp := decode[api.ViewResponse](t, rec); resp.Page.Total != 1 {
		t.Fatalf("filtered total = %d", resp.Page.Total)
	}
	if rec := do(t, srv, http.MethodGet, "/api/views/diary?sort=length-asc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sort status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/views/diary?page=x", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad page status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/views/unknown", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown view status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/views/bogus?page=3&filter=x", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown view with state status = %d", rec.Code)
	}
	if st := sess.ViewState("bogus"); st.Page != 1 || st.Filter != "" {
		t.Fatalf("unknown view recorded state %+v", st)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := newServer(t, "", &stubFetcher{})
	selectAlice(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	stats := decode[api.StatsResponse](t, rec)
	if stats.Stats.Diary != 2 || len(stats.Favorites) != 1 || len(stats.Distribution) != 10 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestLiveToggle(t *testing.T) {
	srv := newServer(t, "", &stubFetcher{})
	selectAlice(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/live", map[string]bool{"enabled": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("enable status = %d: %s", rec.Code, rec.Body.String())
	}
	if live := decode[api.LiveResponse](t, rec); !live.Enabled || live.Diary != 3 || live.FeedUser != "alice" {
		t.Fatalf("live = %+v", live)
	}

	rec = do(t, srv, http.MethodPost, "/api/live", map[string]bool{"enabled": false})
	if live := decode[api.LiveResponse](t, rec); live.Enabled || live.Diary != 2 {
		t.Fatalf("live after disable = %+v", live)
	}

	if rec := do(t, srv, http.MethodPost, "/api/live", map[string]string{"on": "yes"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body status = %d", rec.Code)
	}
}

func TestLiveToggleFeedFailure(t *testing.T) {
	srv := newServer(t, "", &stubFetcher{err: errors.New("relay down")})
	selectAlice(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/live", map[string]bool{"enabled": true})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/live", nil)
	if live := decode[api.LiveResponse](t, rec); live.Enabled || live.Diary != 2 {
		t.Fatalf("live after failure = %+v", live)
	}
}

func TestFeedSummaryAndCacheClear(t *testing.T) {
	srv := newServer(t, "", &stubFetcher{})
	selectAlice(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/feed/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decode[api.FeedSummaryResponse](t, rec); resp.Summary.Total != 1 {
		t.Fatalf("summary = %+v", resp)
	}
	if rec := do(t, srv, http.MethodPost, "/api/cache/clear", nil); rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
}

func TestPosterEndpoint(t *testing.T) {
	srv := newServer(t, "", &stubFetcher{})
	rec := do(t, srv, http.MethodGet, "/api/poster?title=Heat&year=1995", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	poster := decode[tmdb.Poster](t, rec)
	if !poster.Fallback || !strings.Contains(poster.WebURL, "search") {
		t.Fatalf("poster = %+v", poster)
	}
	if rec := do(t, srv, http.MethodGet, "/api/poster", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title status = %d", rec.Code)
	}
}

func TestAuthAndRouting(t *testing.T) {
	srv := newServer(t, "secret", &stubFetcher{})

	if rec := do(t, srv, http.MethodGet, "/api/profiles", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method status = %d", rec.Code)
	}
}
