package cmd

import (
	"fmt"

	"github.com/rustyeddy/papertrader/market"
	"github.com/spf13/cobra"
)

var quotesCmd = &cobra.Command{
	Use:   "quotes [query]",
	Short: "List or search simulated quotes",
	Long: `List every instrument in the catalog with its current simulated price.
With a query, only instruments whose symbol or name contains it are shown.

Examples:
  papertrader quotes
  papertrader quotes apple
  papertrader quotes BTC`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuotes,
}

func init() {
	rootCmd.AddCommand(quotesCmd)
}

func runQuotes(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	instruments := a.market.Instruments()
	if len(args) == 1 {
		instruments = a.market.Search(args[0])
	}
	out := cmd.OutOrStdout()
	if len(instruments) == 0 {
		fmt.Fprintf(out, "No instruments match %q\n", args[0])
		return nil
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tCLASS\tPRICE\tCHANGE\t%")
	for _, in := range instruments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			in.Symbol, in.Name, in.Class, price(in.Class, in.Price),
			in.Change.StringFixed(market.Precision(in.Class, in.Price)), signedPct(in.ChangePercent))
	}
	return tw.Flush()
}
