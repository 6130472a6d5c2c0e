package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmdash/internal/export"
	"filmdash/internal/film"
	"filmdash/internal/session"
)

const statsMonths = 12

type statsResponse struct {
	Profile      string                `json:"profile"`
	DisplayName  string                `json:"display_name"`
	Live         bool                  `json:"live"`
	Stats        export.Stats          `json:"stats"`
	Monthly      []export.MonthCount   `json:"monthly"`
	Distribution []export.RatingBucket `json:"rating_distribution"`
	Recent       []recordRow           `json:"recent"`
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the selected profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				stats, err := rt.Session.Stats()
				if err != nil {
					return err
				}
				bundle := rt.Session.Bundle()
				resp := statsResponse{
					Profile:      bundle.User.ID,
					DisplayName:  bundle.DisplayName,
					Live:         rt.Session.Live(),
					Stats:        stats,
					Monthly:      bundle.MonthlyCounts(statsMonths),
					Distribution: bundle.RatingDistribution(),
					Recent:       recordRows(bundle.RecentActivity(recent)),
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				renderStats(cmd, resp)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&recent, "recent", 5, "Number of recent diary entries to include")
	return cmd
}

func renderStats(cmd *cobra.Command, resp statsResponse) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	s := resp.Stats

	fmt.Fprintf(out, "%s (%s)\n", resp.DisplayName, resp.Profile)
	average := "-"
	if s.AverageRating > 0 {
		average = strconv.FormatFloat(s.AverageRating, 'f', 1, 64)
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Collection", "Count"},
		[][]string{
			{"Films watched", strconv.Itoa(s.Watched)},
			{"Diary entries", strconv.Itoa(s.Diary)},
			{"Ratings", strconv.Itoa(s.Ratings)},
			{"Reviews", strconv.Itoa(s.Reviews)},
			{"Watchlist", strconv.Itoa(s.Watchlist)},
			{"Lists", strconv.Itoa(s.Lists)},
			{"Average rating", average},
			{"Live data", yesNo(resp.Live)},
		},
		[]columnAlignment{alignLeft, alignRight},
		colorize,
	))

	if len(resp.Monthly) > 0 {
		rows := make([][]string, 0, len(resp.Monthly))
		for _, m := range resp.Monthly {
			rows = append(rows, []string{m.Month, strconv.Itoa(m.Count), strings.Repeat("▇", m.Count)})
		}
		fmt.Fprintln(out, renderTable([]string{"Month", "Logged", ""}, rows, []columnAlignment{alignLeft, alignRight}, colorize))
	}

	if s.Ratings > 0 {
		rows := make([][]string, 0, len(resp.Distribution))
		for _, b := range resp.Distribution {
			rows = append(rows, []string{film.Stars(film.FormatRating(b.Rating)), strconv.Itoa(b.Count)})
		}
		fmt.Fprintln(out, renderTable([]string{"Rating", "Films"}, rows, []columnAlignment{alignLeft, alignRight}, colorize))
	}

	if len(resp.Recent) > 0 {
		fmt.Fprintln(out, "Recent activity")
		fmt.Fprintln(out, recordTable(resp.Recent, colorize))
	}
}
