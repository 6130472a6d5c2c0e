package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"filmdash/internal/preflight"
	"filmdash/internal/session"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check paths and external services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *session.Runtime) error {
				username := ""
				id := ctx.profile()
				if id == "" {
					if profiles := rt.Session.Profiles(); len(profiles) > 0 {
						id = profiles[0].ID
					}
				}
				if id != "" {
					if ok, err := rt.Session.SelectProfile(cmd.Context(), id); err == nil && ok {
						username = rt.Session.FeedUsername()
					}
				}

				results := preflight.RunAll(cmd.Context(), rt.Config, rt.Feed, username)
				failed := preflight.Failed(results)
				if jsonOutput {
					if err := writeJSON(cmd, results); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					rows := make([][]string, 0, len(results))
					for _, r := range results {
						state := "ok"
						if !r.Passed {
							state = "FAIL"
						}
						rows = append(rows, []string{r.Name, state, r.Detail})
					}
					fmt.Fprintln(out, renderTable([]string{"Check", "State", "Detail"}, rows, nil, shouldColorize(out)))
				}
				if failed > 0 {
					return errors.New(plural(failed, "check") + " failed")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
