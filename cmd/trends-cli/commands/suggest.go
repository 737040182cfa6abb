package commands

import (
	"os"
	"sort"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(suggestCmd)
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <keyword>",
	Short: "Prints autocomplete entities for a keyword, closest match first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient()

		suggestions, err := client.Suggestions(cmd.Context(), args[0])
		if err != nil {
			fatal("failed to fetch suggestions", err)
		}

		sort.SliceStable(suggestions, func(i, j int) bool {
			return matchr.Levenshtein(suggestions[i].Title, args[0]) <
				matchr.Levenshtein(suggestions[j].Title, args[0])
		})

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"title", "type", "mid"})
		for _, s := range suggestions {
			t.AppendRow(table.Row{s.Title, s.Type, s.Mid})
		}
		t.Render()
	},
}
