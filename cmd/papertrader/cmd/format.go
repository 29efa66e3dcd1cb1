package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
	"github.com/rustyeddy/papertrader/market"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// usd renders an amount as dollars and cents, e.g. $98,500.00.
func usd(d decimal.Decimal) string {
	return money.New(d.Mul(hundred).Round(0).IntPart(), money.USD).Display()
}

// signedUSD is usd with an explicit + for gains, colored by sign.
func signedUSD(d decimal.Decimal) string {
	s := usd(d)
	if d.IsPositive() {
		s = "+" + s
	}
	return colorBySign(d, s)
}

func signedPct(d decimal.Decimal) string {
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		s = "+" + s
	}
	return colorBySign(d, s)
}

func colorBySign(d decimal.Decimal, s string) string {
	switch {
	case d.IsPositive():
		return gainStyle.Render(s)
	case d.IsNegative():
		return lossStyle.Render(s)
	}
	return s
}

// price renders a quote with the precision the simulator keeps for it.
func price(class market.Class, p decimal.Decimal) string {
	return "$" + p.StringFixed(market.Precision(class, p))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func heading(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}
