package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filmdash/internal/session"
)

type showResponse struct {
	View     string      `json:"view"`
	Sort     string      `json:"sort"`
	Filter   string      `json:"filter,omitempty"`
	Page     int         `json:"page"`
	Pages    int         `json:"pages"`
	PageSize int         `json:"page_size"`
	Total    int         `json:"total"`
	Live     bool        `json:"live"`
	Items    []recordRow `json:"items"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var sortFlag string
	var filterFlag string
	var pageFlag int
	var posters bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <view>",
		Short: "Show one page of a collection",
		Long: `Show one page of a collection.

Views: diary, watched, films, ratings, reviews, watchlist, comments.
Sort values take the form key-direction, e.g. date-desc, name-asc, year, rating-desc.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(strings.TrimSpace(args[0]))
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				sess := rt.Session
				if err := sess.CheckView(name); err != nil {
					return err
				}
				if sortFlag != "" {
					if _, err := sess.SetSort(name, sortFlag); err != nil {
						return err
					}
				}
				if filterFlag != "" {
					sess.SetFilter(name, filterFlag)
				}
				if pageFlag > 1 {
					sess.SetPage(name, pageFlag)
				}

				page, err := sess.Page(name)
				if err != nil {
					return err
				}
				state := sess.ViewState(name)
				rows := recordRows(page.Items)
				if posters {
					for i, p := range sess.Posters(cmd.Context(), page.Items) {
						rows[i].Poster = p.URL
					}
				}

				resp := showResponse{
					View:     name,
					Sort:     state.Sort.String(),
					Filter:   state.Filter,
					Page:     page.Page,
					Pages:    page.Pages,
					PageSize: page.PageSize,
					Total:    page.Total,
					Live:     sess.Live(),
					Items:    rows,
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				return renderShow(cmd, resp)
			})
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort order (key-direction)")
	cmd.Flags().StringVar(&filterFlag, "filter", "", "Only show films whose name contains this text")
	cmd.Flags().IntVar(&pageFlag, "page", 1, "Page number")
	cmd.Flags().BoolVar(&posters, "posters", false, "Resolve poster URLs (JSON output only)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderShow(cmd *cobra.Command, resp showResponse) error {
	out := cmd.OutOrStdout()
	if resp.Total == 0 {
		fmt.Fprintf(out, "No %s entries\n", resp.View)
		return nil
	}
	if len(resp.Items) == 0 {
		fmt.Fprintf(out, "Page %d is past the end (%d pages)\n", resp.Page, resp.Pages)
		return nil
	}
	fmt.Fprintln(out, recordTable(resp.Items, shouldColorize(out)))
	footer := fmt.Sprintf("%s · page %d/%d · %d entries · sorted %s", resp.View, resp.Page, resp.Pages, resp.Total, resp.Sort)
	if resp.Filter != "" {
		footer += fmt.Sprintf(" · filter %q", resp.Filter)
	}
	if resp.Live {
		footer += " · live"
	}
	fmt.Fprintln(out, footer)
	return nil
}
