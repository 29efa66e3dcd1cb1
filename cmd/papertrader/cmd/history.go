package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the transaction log",
	Long: `Show executed trades, newest first. The account keeps the last 50;
with a sqlite store, --all lists every journaled trade and --day or
--today list the trades of one day.

Examples:
  papertrader history
  papertrader history --csv trades.csv
  papertrader history --all
  papertrader history --day 2024-01-15 --org`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var tradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Show one journaled trade as an org-mode entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeLookup,
}

var equityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Show recorded portfolio value over time",
	Long: `List the equity snapshots recorded on every price tick (sqlite store only).

Example:
  papertrader equity --since 1h`,
	Args: cobra.NoArgs,
	RunE: runEquity,
}

var (
	historyCSV   string
	historyAll   bool
	historyDay   string
	historyToday bool
	historyOrg   bool
	equitySince  time.Duration
)

var errNeedsSQLite = errors.New("requires store.type sqlite")

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tradeCmd)
	rootCmd.AddCommand(equityCmd)

	historyCmd.Flags().StringVar(&historyCSV, "csv", "", "write the log to a CSV file instead")
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "list every journaled trade")
	historyCmd.Flags().StringVar(&historyDay, "day", "", "list journaled trades of one day (YYYY-MM-DD)")
	historyCmd.Flags().BoolVar(&historyToday, "today", false, "list journaled trades of today")
	historyCmd.Flags().BoolVar(&historyOrg, "org", false, "print org-mode entries")
	equityCmd.Flags().DurationVar(&equitySince, "since", 24*time.Hour, "how far back to look")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	txs, err := historyTransactions(cmd, a)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyCSV != "" {
		f, err := os.Create(historyCSV)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := journal.WriteTransactionsCSV(f, txs); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote %d transactions to %s\n", len(txs), historyCSV)
		return nil
	}

	if historyOrg {
		_, err := io.WriteString(out, journal.FormatTradesOrg(txs))
		return err
	}
	return printTransactions(out, txs)
}

// historyTransactions picks the account log or a journal query from the
// history flags.
func historyTransactions(cmd *cobra.Command, a *app) ([]broker.Transaction, error) {
	if !historyAll && !historyToday && historyDay == "" {
		return a.engine.Transactions(), nil
	}
	db, ok := a.store.(*journal.SQLite)
	if !ok {
		return nil, fmt.Errorf("history: %w", errNeedsSQLite)
	}
	ctx := cmd.Context()
	switch {
	case historyAll:
		return db.ListTrades(ctx, 0)
	case historyToday:
		start, end := journal.DayBounds(time.Now(), time.Local)
		return db.ListTradesBetween(ctx, start, end)
	}
	day, err := time.ParseInLocation("2006-01-02", historyDay, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse day (expected YYYY-MM-DD): %w", err)
	}
	start, end := journal.DayBounds(day, time.Local)
	return db.ListTradesBetween(ctx, start, end)
}

func runTradeLookup(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	db, ok := a.store.(*journal.SQLite)
	if !ok {
		return fmt.Errorf("trade: %w", errNeedsSQLite)
	}
	tx, err := db.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), journal.FormatTradeOrg(tx))
	return err
}

func printTransactions(out io.Writer, txs []broker.Transaction) error {
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transactions")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "TIME\tSIDE\tSYMBOL\tQUANTITY\tPRICE\tAMOUNT\tID")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%s\t%s\t%s\n",
			tx.Time.Local().Format("2006-01-02 15:04:05"), tx.Side, tx.Symbol, tx.Quantity,
			tx.Price.StringFixed(2), usd(tx.Amount()), tx.ID)
	}
	return tw.Flush()
}

func runEquity(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	db, ok := a.store.(*journal.SQLite)
	if !ok {
		return fmt.Errorf("equity: %w", errNeedsSQLite)
	}
	end := time.Now()
	snaps, err := db.ListEquityBetween(cmd.Context(), end.Add(-equitySince), end.Add(time.Second))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No equity recorded; run `papertrader run` first")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "TIME\tCASH\tPOSITIONS\tPORTFOLIO")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			s.Time.Local().Format("2006-01-02 15:04:05"), usd(s.Cash), usd(s.PositionsValue), usd(s.PortfolioValue))
	}
	return tw.Flush()
}
