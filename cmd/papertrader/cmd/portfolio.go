package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show cash, positions and profit/loss",
	Long: `Show the account: cash, every open position valued at the current
simulated price, the total portfolio value and profit/loss against the
starting cash.

Examples:
  papertrader portfolio
  papertrader portfolio --org > statement.org`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

var portfolioOrg bool

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.Flags().BoolVar(&portfolioOrg, "org", false, "print an org-mode statement")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	st := a.engine.State()

	if portfolioOrg {
		return journal.Statement{
			AccountID: a.cfg.Account.ID,
			Created:   time.Now(),
			State:     st,
		}.WriteOrg(out)
	}

	heading(out, "Portfolio "+a.cfg.Account.ID)
	fmt.Fprintf(out, "Cash:            %s\n", usd(st.Cash))
	fmt.Fprintf(out, "Portfolio value: %s\n", usd(st.PortfolioValue()))
	fmt.Fprintf(out, "Total P/L:       %s\n", signedUSD(st.TotalProfitLoss()))

	if len(st.Positions) == 0 {
		fmt.Fprintln(out, "\nNo open positions")
		return nil
	}

	fmt.Fprintln(out)
	tw := newTable(out)
	fmt.Fprintln(tw, "SYMBOL\tSHARES\tAVG PRICE\tPRICE\tVALUE\tP/L\t%")
	for _, p := range st.Positions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Symbol, p.Shares, price(p.Class, p.AvgPrice), price(p.Class, p.CurrentPrice),
			usd(p.MarketValue()), signedUSD(p.UnrealizedPL()), signedPct(p.UnrealizedPLPercent()))
	}
	return tw.Flush()
}
