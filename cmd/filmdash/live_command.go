package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmdash/internal/session"
)

type liveStatus struct {
	Profile      string `json:"profile"`
	Live         bool   `json:"live"`
	FeedUsername string `json:"feed_username"`
	Diary        int    `json:"diary"`
	Watched      int    `json:"watched"`
}

func newLiveCommand(ctx *commandContext) *cobra.Command {
	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "Merge live feed activity into the diary",
	}

	liveCmd.AddCommand(&cobra.Command{
		Use:   "on",
		Short: "Enable live data for the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				before := len(rt.Session.Bundle().DiarySnapshot())
				if err := rt.Session.EnableLive(cmd.Context()); err != nil {
					return feedError(rt.Session.FeedUsername(), err)
				}
				added := len(rt.Session.Bundle().Diary) - before
				fmt.Fprintf(cmd.OutOrStdout(), "Live data enabled for %s (%d new diary entries)\n", rt.Session.Bundle().User.ID, added)
				return nil
			})
		},
	})

	liveCmd.AddCommand(&cobra.Command{
		Use:   "off",
		Short: "Disable live data for the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				if err := rt.Session.DisableLive(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Live data disabled for %s\n", rt.Session.Bundle().User.ID)
				return nil
			})
		},
	})

	var jsonOutput bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether live data is enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				bundle := rt.Session.Bundle()
				status := liveStatus{
					Profile:      bundle.User.ID,
					Live:         rt.Session.Live(),
					FeedUsername: rt.Session.FeedUsername(),
					Diary:        len(bundle.Diary),
					Watched:      len(bundle.Watched),
				}
				if jsonOutput {
					return writeJSON(cmd, status)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Profile:  %s\n", status.Profile)
				fmt.Fprintf(out, "Live:     %s\n", yesNo(status.Live))
				fmt.Fprintf(out, "Feed:     %s\n", status.FeedUsername)
				fmt.Fprintf(out, "Diary:    %d\n", status.Diary)
				fmt.Fprintf(out, "Watched:  %d\n", status.Watched)
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	liveCmd.AddCommand(statusCmd)

	return liveCmd
}
