package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(chartsCmd)
}

var chartsCmd = &cobra.Command{
	Use:   "charts <year>",
	Short: "Prints the year-in-review top charts.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("invalid year", err)
		}
		client := createClient()

		charts, err := client.TopCharts(cmd.Context(), year, *flagGeo)
		if err != nil {
			fatal("failed to fetch top charts", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"title", "explore query"})
		for _, entry := range charts {
			t.AppendRow(table.Row{entry.Title, entry.ExploreQuery})
		}
		t.Render()
	},
}
