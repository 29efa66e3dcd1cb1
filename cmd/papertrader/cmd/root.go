package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "papertrader",
	Short: "A paper trading simulator for stocks and crypto",
	Long: `Papertrader simulates a brokerage account against a randomly walking market.

It provides tools for:
  - Browsing and searching simulated quotes
  - Buying and selling at the current market price
  - Tracking positions, cash and profit/loss
  - Keeping a watchlist
  - Running the price timer and recording equity over time

Settings come from a YAML or JSON file (--config) and PAPERTRADER_* environment
variables, e.g. PAPERTRADER_STORE_TYPE=memory.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
}
