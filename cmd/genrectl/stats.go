package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/palemoky/chinese-genre-classifier/internal/database"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print statistics of the stored analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			stats, err := database.NewRepository(db).GetStatistics()
			if err != nil {
				return fmt.Errorf("failed to get statistics: %w", err)
			}
			return renderStatistics(cmd.OutOrStdout(), stats)
		},
	}
}

func renderStatistics(w io.Writer, stats *database.Statistics) error {
	fmt.Fprintln(w, "=== Database Statistics ===")
	fmt.Fprintf(w, "Analyses: %d  Authors: %d  Hits: %d\n", stats.TotalAnalyses, stats.TotalAuthors, stats.TotalHits)

	genres := tablewriter.NewWriter(w)
	genres.Header("Genre", "Name", "Analyses")
	for _, g := range stats.ByGenre {
		if err := genres.Append([]string{g.Genre, g.DisplayName, fmt.Sprint(g.Count)}); err != nil {
			return err
		}
	}
	if err := genres.Render(); err != nil {
		return err
	}

	if len(stats.ByDynasty) > 0 {
		dynasties := tablewriter.NewWriter(w)
		dynasties.Header("Dynasty", "English", "From", "Analyses")
		for _, d := range stats.ByDynasty {
			from := ""
			if d.StartYear != nil {
				from = fmt.Sprint(*d.StartYear)
			}
			if err := dynasties.Append([]string{d.Dynasty, d.NameEn, from, fmt.Sprint(d.Count)}); err != nil {
				return err
			}
		}
		if err := dynasties.Render(); err != nil {
			return err
		}
	}

	if len(stats.ByLang) > 0 {
		langs := tablewriter.NewWriter(w)
		langs.Header("Language", "Analyses")
		for _, l := range stats.ByLang {
			if err := langs.Append([]string{string(l.Lang), fmt.Sprint(l.Count)}); err != nil {
				return err
			}
		}
		return langs.Render()
	}
	return nil
}
