package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"filmdash/internal/feed"
	"filmdash/internal/services"
	"filmdash/internal/session"
)

func newFeedCommand(ctx *commandContext) *cobra.Command {
	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Inspect the profile's live activity feed",
	}

	feedCmd.AddCommand(newFeedRecentCommand(ctx))
	feedCmd.AddCommand(newFeedSummaryCommand(ctx))
	feedCmd.AddCommand(newFeedTestCommand(ctx))
	return feedCmd
}

func newFeedRecentCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recent diary entries from the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				username := rt.Session.FeedUsername()
				records, err := rt.Feed.RecentDiaryEntries(cmd.Context(), username, limit)
				if err != nil {
					return feedError(username, err)
				}
				rows := recordRows(records)
				if jsonOutput {
					return writeJSON(cmd, rows)
				}
				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintf(out, "No recent diary entries for %s\n", username)
					return nil
				}
				fmt.Fprintln(out, recordTable(rows, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum entries to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newFeedSummaryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count the last week of feed activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				summary, err := rt.Session.FeedSummary(cmd.Context())
				if err != nil {
					return feedError(rt.Session.FeedUsername(), err)
				}
				if jsonOutput {
					return writeJSON(cmd, summary)
				}
				renderSummary(cmd, rt.Session.FeedUsername(), summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderSummary(cmd *cobra.Command, username string, summary feed.Summary) {
	out := cmd.OutOrStdout()
	last := "-"
	if summary.LastActivity != nil {
		last = summary.LastActivity.Format("2006-01-02 15:04")
	}
	fmt.Fprintf(out, "Feed activity for %s (last 7 days)\n", username)
	fmt.Fprintln(out, renderTable(
		[]string{"Activity", "Count"},
		[][]string{
			{"Total", strconv.Itoa(summary.Total)},
			{"Watched", strconv.Itoa(summary.Watched)},
			{"Reviewed", strconv.Itoa(summary.Reviewed)},
			{"Liked", strconv.Itoa(summary.Liked)},
			{"Last activity", last},
		},
		[]columnAlignment{alignLeft, alignRight},
		shouldColorize(out),
	))
}

func newFeedTestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the feed relay can reach the profile's feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				username := rt.Session.FeedUsername()
				if err := rt.Feed.TestAccess(cmd.Context(), username); err != nil {
					return feedError(username, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Feed for %s is reachable at %s\n", username, rt.Feed.FeedURL(username))
				return nil
			})
		},
	}
}

func feedError(username string, err error) error {
	if errors.Is(err, services.ErrValidation) {
		return fmt.Errorf("feed username %q is not valid: %w", username, err)
	}
	return fmt.Errorf("feed for %s unavailable: %w", username, err)
}
