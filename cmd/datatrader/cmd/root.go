package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/datatrader/config"
)

var rootCmd = &cobra.Command{
	Use:   "datatrader",
	Short: "An event-driven equities backtester",
	Long: `Datatrader replays historical ticks or daily bars through a strategy,
position sizer and risk manager, fills the resulting orders against a
simulated exchange and reports the equity curve.

It provides tools for:
  - Backtesting strategies against CSV price data
  - Journaling fills and equity to CSV or SQLite
  - Generating and validating session configs`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnv(envFile)
	},
}

var envFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with DATATRADER_* overrides")
}
