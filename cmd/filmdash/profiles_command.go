package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmdash/internal/session"
)

type profileRow struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Folder       string `json:"folder"`
	FeedUsername string `json:"feed_username,omitempty"`
	LastUpdated  string `json:"last_updated,omitempty"`
}

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles in the export directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *session.Runtime) error {
				users := rt.Session.Profiles()
				rows := make([]profileRow, 0, len(users))
				for _, u := range users {
					rows = append(rows, profileRow{
						ID:           u.ID,
						DisplayName:  u.DisplayName,
						Folder:       u.Folder,
						FeedUsername: u.FeedUsername,
						LastUpdated:  u.LastUpdated,
					})
				}
				if jsonOutput {
					return writeJSON(cmd, rows)
				}

				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(out, "No profiles found")
					return nil
				}
				table := make([][]string, 0, len(rows))
				for _, r := range rows {
					table = append(table, []string{r.ID, r.DisplayName, r.Folder, r.FeedUsername, r.LastUpdated})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Folder", "Feed", "Updated"},
					table,
					nil,
					shouldColorize(out),
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
