package preflight

import (
	"context"

	"filmdash/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// FeedProber checks that a feed account is reachable.
type FeedProber interface {
	TestAccess(ctx context.Context, username string) error
}

// RunAll executes every check for cfg. The feed check runs only when a prober
// and a username are supplied.
func RunAll(ctx context.Context, cfg *config.Config, feed FeedProber, username string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir, false),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir, true),
		CheckTMDB(ctx, cfg),
	}
	if feed != nil && username != "" {
		results = append(results, CheckFeed(ctx, feed, username))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
