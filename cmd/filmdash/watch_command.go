package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"filmdash/internal/logging"
	"filmdash/internal/session"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var interval time.Duration
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep live data fresh by polling the feed",
		Long: `Enable live data for the profile and re-fetch the feed on an interval.

Only one watcher runs per profile; a second one exits immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				profile := rt.Session.Bundle().User.ID
				lock := flock.New(rt.Config.LockPath(profile))
				ok, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire watch lock: %w", err)
				}
				if !ok {
					return fmt.Errorf("another watcher is already running for profile %s", profile)
				}
				defer func() { _ = lock.Unlock() }()

				every := interval
				if every <= 0 {
					every = rt.Config.PollInterval()
				}
				logger, err := ctx.logger(cmd)
				if err != nil {
					return err
				}
				logger = logging.NewComponentLogger(logger, "watch").With(
					logging.String("profile", profile),
					logging.String(logging.FieldCorrelationID, rt.Session.ID()),
				)
				return runWatch(signalCtx, cmd, rt, every, once, logger)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (defaults to feed.poll_seconds)")
	cmd.Flags().BoolVar(&once, "once", false, "Refresh once and exit")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, rt *session.Runtime, every time.Duration, once bool, logger *slog.Logger) error {
	sess := rt.Session
	out := cmd.OutOrStdout()
	username := sess.FeedUsername()

	if sess.Live() {
		refreshOnce(ctx, rt, username, logger)
	} else if err := sess.EnableLive(ctx); err != nil {
		return feedError(username, err)
	}
	if once {
		fmt.Fprintf(out, "Refreshed live data for %s\n", username)
		return nil
	}
	fmt.Fprintf(out, "Watching %s every %s\n", username, every)

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				fmt.Fprintln(out, "Stopped watching")
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			refreshOnce(ctx, rt, username, logger)
		}
	}
}

// refreshOnce drops the cached feed and re-merges. Failures keep the
// previous merge.
func refreshOnce(ctx context.Context, rt *session.Runtime, username string, logger *slog.Logger) {
	before := len(rt.Session.Bundle().Diary)
	rt.Feed.ClearCache(username)
	if err := rt.Session.RefreshLive(ctx); err != nil {
		logging.WarnWithContext(logger, "live refresh failed", "live_refresh_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "previous live data kept"),
			logging.String(logging.FieldErrorHint, "check the feed relay"),
		)
		return
	}
	if added := len(rt.Session.Bundle().Diary) - before; added > 0 {
		logger.Info("new diary entries merged", logging.Int("added", added))
	}
}
