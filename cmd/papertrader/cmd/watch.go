package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage the watchlist",
	Long: `Manage the symbols you follow.

Subcommands:
  list    - Show watched symbols with their quotes
  add     - Watch one or more symbols
  remove  - Stop watching one or more symbols

Examples:
  papertrader watch add AAPL TSLA
  papertrader watch remove META
  papertrader watch list`,
}

var watchListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show watched symbols with their quotes",
	Args:  cobra.NoArgs,
	RunE:  runWatchList,
}

var watchAddCmd = &cobra.Command{
	Use:   "add SYMBOL...",
	Short: "Watch one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatchAdd,
}

var watchRemoveCmd = &cobra.Command{
	Use:   "remove SYMBOL...",
	Short: "Stop watching one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatchRemove,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.AddCommand(watchListCmd)
	watchCmd.AddCommand(watchAddCmd)
	watchCmd.AddCommand(watchRemoveCmd)
}

func runWatchList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	symbols := a.engine.Watchlist()
	if len(symbols) == 0 {
		fmt.Fprintln(out, "Watchlist is empty")
		return nil
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tPRICE\t%")
	for _, sym := range symbols {
		in, ok := a.market.Instrument(sym)
		if !ok {
			fmt.Fprintf(tw, "%s\t(not listed)\t-\t-\n", sym)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", in.Symbol, in.Name, price(in.Class, in.Price), signedPct(in.ChangePercent))
	}
	return tw.Flush()
}

func runWatchAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, sym := range args {
		if err := a.engine.AddToWatchlist(cmd.Context(), sym); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Watching %d symbols\n", len(a.engine.Watchlist()))
	return nil
}

func runWatchRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, sym := range args {
		a.engine.RemoveFromWatchlist(cmd.Context(), sym)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Watching %d symbols\n", len(a.engine.Watchlist()))
	return nil
}
