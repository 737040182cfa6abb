package commands

import (
	"os"

	"gtrends/lib/scrapers/trends/report"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var relatedTopics *bool

func init() {
	relatedTopics = relatedCmd.Flags().Bool("topics", false, "Fetch related topics instead of related queries.")
	rootCmd.AddCommand(relatedCmd)
}

var relatedCmd = &cobra.Command{
	Use:   "related <keyword>",
	Short: "Prints the top and rising queries (or topics) for a keyword.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient()

		var groups report.RelatedGroups
		var err error
		if *relatedTopics {
			groups, err = client.RelatedTopics(cmd.Context(), args, exploreOptions())
		} else {
			groups, err = client.RelatedQueries(cmd.Context(), args, exploreOptions())
		}
		if err != nil {
			fatal("failed to fetch related data", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"list", "query", "value"})
		for _, entry := range groups.Top {
			t.AppendRow(table.Row{"top", entry.Query, entry.Formatted})
		}
		for _, entry := range groups.Rising {
			t.AppendRow(table.Row{"rising", entry.Query, entry.Formatted})
		}
		t.Render()
	},
}
