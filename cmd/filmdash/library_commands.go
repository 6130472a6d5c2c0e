package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmdash/internal/export"
	"filmdash/internal/session"
)

func newFavoritesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Show the profile's favourite films",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				rows := recordRows(rt.Session.Bundle().Favorites)
				if jsonOutput {
					return writeJSON(cmd, rows)
				}
				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(out, "No favourite films")
					return nil
				}
				fmt.Fprintln(out, recordTable(rows, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type listRow struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Count       int           `json:"count"`
	Items       []listItemRow `json:"items,omitempty"`
}

type listItemRow struct {
	Position string `json:"position,omitempty"`
	Name     string `json:"name"`
	Year     string `json:"year,omitempty"`
	Notes    string `json:"notes,omitempty"`
	URI      string `json:"uri,omitempty"`
}

func newListRow(list export.NamedList, withItems bool) listRow {
	row := listRow{
		Title:       list.Title(),
		Description: list.Description(),
		Count:       len(list.Items),
	}
	if !withItems {
		return row
	}
	for _, rec := range list.Items {
		item := export.ListItem(rec)
		row.Items = append(row.Items, listItemRow{
			Position: item.Position(),
			Name:     item.Name(),
			Year:     item.Year(),
			Notes:    item.Notes(),
			URI:      item.URI(),
		})
	}
	return row
}

func newListsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "lists [title]",
		Short: "Show the profile's lists, or the films in one list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rt *session.Runtime) error {
				lists := rt.Session.Bundle().Lists
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				if len(args) == 1 {
					want := strings.TrimSpace(args[0])
					for _, list := range lists {
						if !strings.EqualFold(list.Title(), want) && !strings.EqualFold(list.Filename, want) {
							continue
						}
						row := newListRow(list, true)
						if jsonOutput {
							return writeJSON(cmd, row)
						}
						fmt.Fprintln(out, row.Title)
						if row.Description != "" {
							fmt.Fprintln(out, row.Description)
						}
						data := make([][]string, 0, len(row.Items))
						for _, item := range row.Items {
							data = append(data, []string{item.Position, item.Name, item.Year, item.Notes})
						}
						fmt.Fprintln(out, renderTable(
							[]string{"#", "Film", "Year", "Notes"},
							data,
							[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
							colorize,
						))
						return nil
					}
					return fmt.Errorf("no list named %q", want)
				}

				rows := make([]listRow, 0, len(lists))
				for _, list := range lists {
					rows = append(rows, newListRow(list, false))
				}
				if jsonOutput {
					return writeJSON(cmd, rows)
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "No lists")
					return nil
				}
				data := make([][]string, 0, len(rows))
				for _, r := range rows {
					data = append(data, []string{r.Title, strconv.Itoa(r.Count), r.Description})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"List", "Films", "Description"},
					data,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
					colorize,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newPosterCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "poster <title> [year]",
		Short: "Resolve poster artwork for a film",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			year := ""
			if len(args) == 2 {
				year = args[1]
			}
			return ctx.withRuntime(cmd, func(rt *session.Runtime) error {
				poster := rt.Enricher.Poster(cmd.Context(), title, year)
				if jsonOutput {
					return writeJSON(cmd, poster)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Poster:   %s\n", poster.URL)
				fmt.Fprintf(out, "Fallback: %s\n", yesNo(poster.Fallback))
				fmt.Fprintf(out, "Web:      %s\n", poster.WebURL)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
