package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"filmdash/internal/config"
	"filmdash/internal/testsupport"
)

const testFeed = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:letterboxd="https://letterboxd.com">
<channel>
<title>Letterboxd - alicefeed</title>
<link>https://letterboxd.com/alicefeed/</link>
<description>feed</description>
<item>
<title>Dune, 2021 - ★★★★</title>
<link>https://letterboxd.com/alicefeed/film/dune-2021/</link>
<pubDate>Fri, 02 Feb 2024 21:00:00 +0000</pubDate>
<letterboxd:watchedDate>2024-02-02</letterboxd:watchedDate>
<letterboxd:filmTitle>Dune</letterboxd:filmTitle>
<letterboxd:filmYear>2021</letterboxd:filmYear>
<letterboxd:memberRating>4.0</letterboxd:memberRating>
</item>
<item>
<title>Heat, 1995</title>
<link>https://letterboxd.com/alicefeed/film/heat/</link>
<pubDate>Thu, 01 Feb 2024 21:00:00 +0000</pubDate>
<letterboxd:watchedDate>2024-02-01</letterboxd:watchedDate>
<letterboxd:filmTitle>Heat</letterboxd:filmTitle>
<letterboxd:filmYear>1995</letterboxd:filmYear>
</item>
</channel>
</rss>`

const testList = `Letterboxd list export v7
Date,Name,Tags,URL,Description
2023-06-01,Best of 2019,,https://boxd.it/list,My year
 
Position,Name,Year,URL,Description
1,Parasite,2019,https://boxd.it/parasite,Top
2,Knives Out,2019,https://boxd.it/knives,
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	relayCalls *atomic.Int32
	relayFail  *atomic.Bool
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("FILMDASH_API_TOKEN", "")

	calls := new(atomic.Int32)
	fail := new(atomic.Bool)
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			http.Error(w, "upstream down", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"contents": testFeed})
	}))
	t.Cleanup(relay.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithRelay(relay.URL))
	home := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	testsupport.WriteExport(t, cfg.Paths.ExportDir, map[string]string{
		"users.json":                `[{"id":"alice","displayName":"Alice","folder":"alice","rssUsername":"alicefeed","lists":["best-2019.csv"]},{"id":"bob","displayName":"Bob","folder":"bob"}]`,
		"alice/profile.csv":         "Username,Favorite Films\nalicefilms,https://boxd.it/alien\n",
		"alice/diary.csv":           "Date,Name,Year,Letterboxd URI,Rating,Rewatch,Tags,Watched Date\n2024-01-01,Heat,1995,https://boxd.it/heat,4,,,2024-01-01\n2023-12-01,Alien,1979,https://boxd.it/alien,5,,,2023-12-01\n",
		"alice/watched.csv":         "Date,Name,Year,Letterboxd URI\n2024-01-01,Heat,1995,https://boxd.it/heat\n2023-12-01,Alien,1979,https://boxd.it/alien\n",
		"alice/ratings.csv":         "Date,Name,Year,Letterboxd URI,Rating\n2024-01-01,Heat,1995,https://boxd.it/heat,4\n2023-12-01,Alien,1979,https://boxd.it/alien,5\n",
		"alice/lists/best-2019.csv": testList,
		"bob/diary.csv":             "Date,Name,Year,Letterboxd URI,Rating\n2022-05-01,Up,2009,https://boxd.it/up,3\n",
	})

	configPath := filepath.Join(testsupport.BaseDir(cfg), "filmdash.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, relayCalls: calls, relayFail: fail}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
export_dir = %q
data_dir = %q
log_dir = %q

[tmdb]
api_key = %q

[feed]
relay_url = %q
retry_attempts = 1
timeout_seconds = 5

[api]
bind = %q
token = %q

[logging]
level = "error"
`,
		cfg.Paths.ExportDir,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.TMDB.APIKey,
		cfg.Feed.RelayURL,
		cfg.API.Bind,
		cfg.API.Token,
	)
	testsupport.WriteFile(t, path, content)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func decodeJSON[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		t.Fatalf("decode %q: %v", output, err)
	}
	return v
}
