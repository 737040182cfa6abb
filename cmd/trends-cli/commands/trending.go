package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var trendingRSS *bool

func init() {
	trendingRSS = trendingCmd.Flags().Bool("rss", false, "Read the RSS feed instead of the JSON endpoint.")
	rootCmd.AddCommand(trendingCmd)
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Prints the daily trending searches for a geo.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient()

		geo := *flagGeo
		if geo == "" {
			geo = "US"
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"query", "traffic"})

		if *trendingRSS {
			items, err := client.TrendingRSS(cmd.Context(), geo)
			if err != nil {
				fatal("failed to fetch trending feed", err)
			}
			for _, item := range items {
				t.AppendRow(table.Row{item.Title, item.Traffic})
			}
		} else {
			searches, err := client.TrendingSearches(cmd.Context(), geo)
			if err != nil {
				fatal("failed to fetch trending searches", err)
			}
			for _, search := range searches {
				t.AppendRow(table.Row{search.Query, search.Traffic})
			}
		}
		t.Render()
	},
}
