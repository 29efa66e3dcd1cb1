package cmd

import (
	"fmt"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy SYMBOL QUANTITY",
	Short: "Buy at the current market price",
	Long: `Buy QUANTITY units of SYMBOL at the current simulated price.
Fractional quantities are allowed.

Examples:
  papertrader buy AAPL 10
  papertrader buy BTC 0.05`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrder(cmd, broker.Buy, args)
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell SYMBOL QUANTITY",
	Short: "Sell from an open position at the current market price",
	Long: `Sell QUANTITY units of SYMBOL at the current simulated price. Selling
the whole position closes it.

Example:
  papertrader sell AAPL 5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrder(cmd, broker.Sell, args)
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
}

func runOrder(cmd *cobra.Command, side broker.Side, args []string) error {
	qty, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", args[1], err)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	tx, err := a.engine.ExecuteTrade(cmd.Context(), args[0], side, qty)
	if err != nil {
		return err
	}

	verb := "Bought"
	if side == broker.Sell {
		verb = "Sold"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s %s %s at $%s (%s)\n", verb, tx.Quantity, tx.Symbol, tx.Price.StringFixed(2), usd(tx.Amount()))
	fmt.Fprintf(out, "  Cash: %s\n", usd(a.engine.Cash()))
	fmt.Fprintf(out, "  Transaction: %s\n", tx.ID)
	return nil
}
