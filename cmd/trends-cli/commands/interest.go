package commands

import (
	"os"
	"sort"

	"gtrends/lib/scrapers/trends"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	flagResolution *string
	flagLowVolume  *bool
)

func init() {
	flagResolution = regionCmd.Flags().String("resolution", "", "COUNTRY, REGION, CITY or DMA.")
	flagLowVolume = regionCmd.Flags().Bool("low-volume", false, "Include regions with little search volume.")

	rootCmd.AddCommand(interestCmd)
	rootCmd.AddCommand(regionCmd)
}

func regionOptions() trends.RegionOptions {
	return trends.RegionOptions{
		ExploreOptions:   exploreOptions(),
		Resolution:       *flagResolution,
		IncludeLowVolume: *flagLowVolume,
	}
}

var interestCmd = &cobra.Command{
	Use:   "interest <keyword> [keyword...]",
	Short: "Prints the interest-over-time series for up to five keywords.",
	Args:  cobra.RangeArgs(1, 5),
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient()

		timeline, err := client.InterestOverTime(cmd.Context(), args, exploreOptions())
		if err != nil {
			fatal("failed to fetch interest over time", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)

		header := table.Row{"time"}
		for _, kw := range args {
			header = append(header, kw)
		}
		t.AppendHeader(header)

		for _, point := range timeline.Points {
			row := table.Row{point.Label}
			for _, kw := range args {
				row = append(row, point.Values[kw])
			}
			t.AppendRow(row)
		}
		t.Render()
	},
}

var regionCmd = &cobra.Command{
	Use:   "region <keyword>",
	Short: "Prints interest by region for a keyword.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient()

		regions, err := client.InterestByRegion(cmd.Context(), args, regionOptions())
		if err != nil {
			fatal("failed to fetch interest by region", err)
		}

		sort.Slice(regions, func(i, j int) bool {
			return regions[i].Values[args[0]] > regions[j].Values[args[0]]
		})

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"region", "code", "interest"})
		for _, region := range regions {
			t.AppendRow(table.Row{region.Name, region.Code, region.Values[args[0]]})
		}
		t.Render()
	},
}
