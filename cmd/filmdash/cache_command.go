package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmdash/internal/prefs"
	"filmdash/internal/session"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached and saved state",
	}
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Re-arm offline notices and optionally forget saved preferences",
		Long: `Re-arm offline notices that were dismissed, so the next TMDB or feed outage
is reported again. With --all, every saved preference is removed, including
each profile's live data choice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *session.Runtime) error {
				rt.Session.ClearCaches()
				out := cmd.OutOrStdout()
				if err := rt.Prefs.SetNotificationsDismissed(cmd.Context(), false); err != nil {
					return fmt.Errorf("reset notices: %w", err)
				}
				if !all {
					fmt.Fprintln(out, "Offline notices re-armed")
					return nil
				}

				profiles := []string{prefs.GlobalProfile}
				for _, u := range rt.Session.Profiles() {
					profiles = append(profiles, u.ID)
				}
				for _, id := range profiles {
					if err := rt.Prefs.Clear(cmd.Context(), id); err != nil {
						return fmt.Errorf("clear preferences for %s: %w", id, err)
					}
				}
				fmt.Fprintf(out, "Cleared saved preferences for %d profiles\n", len(profiles)-1)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also remove every saved preference")
	return cmd
}
