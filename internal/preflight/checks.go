package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"filmdash/internal/config"
	"filmdash/internal/tmdb"
)

const (
	tmdbProbeTimeout = 10 * time.Second
	feedProbeTimeout = 30 * time.Second
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable too when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode, label := uint32(unix.R_OK|unix.X_OK), "read ok"
	if write {
		mode, label = unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckTMDB runs one search against the configured TMDB endpoint. Without a
// usable key the check passes as disabled.
func CheckTMDB(ctx context.Context, cfg *config.Config) Result {
	const name = "TMDB"

	if !tmdb.UsableAPIKey(cfg.TMDB.APIKey) {
		return Result{Name: name, Passed: true, Detail: "disabled (no api key; fallback posters)"}
	}
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithTimeout(tmdbProbeTimeout))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, tmdbProbeTimeout)
	defer cancel()
	if _, err := client.SearchMovie(checkCtx, "Heat", 1995); err != nil {
		var status *tmdb.StatusError
		if errors.As(err, &status) && status.Code == http.StatusUnauthorized {
			return Result{Name: name, Detail: "auth failed (invalid api key)"}
		}
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckFeed verifies the relay can fetch the feed for username.
func CheckFeed(ctx context.Context, feed FeedProber, username string) Result {
	name := "Feed (" + username + ")"

	checkCtx, cancel := context.WithTimeout(ctx, feedProbeTimeout)
	defer cancel()
	if err := feed.TestAccess(checkCtx, username); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "reachable"}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (service unreachable)"
	}
	return err.Error()
}
