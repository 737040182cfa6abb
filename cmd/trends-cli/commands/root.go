package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"gtrends/lib/configutil"
	"gtrends/lib/restyutil"
	"gtrends/lib/scrapers/trends"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trends-cli",
	Short: "trends-cli queries Google Trends report data from the terminal.",
}

var (
	flagGeo       *string
	flagTimeframe *string
	flagVerbose   *bool
)

func init() {
	flagGeo = rootCmd.PersistentFlags().String("geo", "", "Two-letter geo code, empty for worldwide.")
	flagTimeframe = rootCmd.PersistentFlags().String("timeframe", "", "Timeframe expression, e.g. 'today 3-m' or '2024-01-01 2024-06-01'.")
	flagVerbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Dump HTTP exchanges to .dev/resty/trends.")
}

// Config is read from trends.json5 next to the working directory, with
// trends.local.json5 overrides.
type Config struct {
	Language       string  `json:"language"`
	TimezoneOffset *int    `json:"timezone_offset"`
	RequestDelay   float64 `json:"request_delay_seconds"`
	MaxRetries     int     `json:"max_retries"`
	EntityNames    bool    `json:"entity_names"`
	Proxy          string  `json:"proxy"`
}

func createClient() *trends.Client {
	cfg, err := configutil.ReadConfig[Config]("trends.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}

	if *flagVerbose {
		trends.SetRestyInstrumentOutput(
			restyutil.NewFilesystemOutput(".dev/resty/trends"),
		)
	}

	client, err := trends.NewClient(trends.ClientOptions{
		Language:       cfg.Language,
		TimezoneOffset: cfg.TimezoneOffset,
		RequestDelay:   time.Duration(cfg.RequestDelay * float64(time.Second)),
		MaxRetries:     cfg.MaxRetries,
		EntityNames:    cfg.EntityNames,
	})
	if err != nil {
		fatal("failed to initialize client", err)
	}
	if cfg.Proxy != "" {
		if err := client.SetProxy(cfg.Proxy); err != nil {
			fatal("failed to configure proxy", err)
		}
	}
	return client
}

func exploreOptions() trends.ExploreOptions {
	return trends.ExploreOptions{
		Timeframe: *flagTimeframe,
		Geo:       *flagGeo,
	}
}

func fatal(message string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
