package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/rustyeddy/papertrader/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the market simulation",
	Long: `Advance simulated prices on every tick, revalue positions and record
the portfolio value. Runs until interrupted or --ticks ticks have elapsed.

Examples:
  papertrader run
  papertrader run --ticks 10 --interval 1s`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runTicks    int
	runInterval time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&runTicks, "ticks", "n", 0, "stop after this many ticks (0 runs until interrupted)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0, "tick interval (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	events := notify.NewChan(64, nil)
	a, err := openApp(ctx, events)
	if err != nil {
		return err
	}
	defer a.Close()

	interval := runInterval
	if interval == 0 {
		if interval, err = a.cfg.Market.Interval(); err != nil {
			return err
		}
	}

	r, err := sim.NewRunner(a.engine, interval, a.log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	start := a.engine.PortfolioValue()
	r.OnTick = func(s journal.EquitySnapshot) {
		fmt.Fprintf(out, "%s  portfolio %s  cash %s  change %s\n",
			s.Time.Local().Format("15:04:05"), usd(s.PortfolioValue), usd(s.Cash),
			signedUSD(s.PortfolioValue.Sub(start)))
	}

	// Warnings and errors are echoed; everything else is only counted.
	delivered := 0
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for e := range events.C {
			delivered++
			if e.Severity == notify.Warning || e.Severity == notify.Error {
				fmt.Fprintf(out, "%s: %s\n", e.Title, e.Message)
			}
		}
	}()

	fmt.Fprintf(out, "Running market every %s (Ctrl-C to stop)\n", interval)
	err = r.Run(ctx, runTicks)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	// The runner has returned, so nothing else notifies.
	close(events.C)
	<-drained
	fmt.Fprintf(out, "Stopped after %d ticks. Portfolio value %s\n", r.Ticks(), usd(a.engine.PortfolioValue()))
	fmt.Fprintf(out, "Delivered %d events (%d dropped)\n", delivered, events.Dropped())
	return err
}
