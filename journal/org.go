package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/papertrader/broker"
)

// FormatTradeOrg renders a trade as an org-mode heading with a properties
// drawer and empty notes sections.
func FormatTradeOrg(t broker.Transaction) string {
	heading := fmt.Sprintf("** %s %s %s (%s)", strings.ToUpper(string(t.Side)), t.Quantity, t.Symbol, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", t.Side))
	b.WriteString(fmt.Sprintf(":QUANTITY: %s\n", t.Quantity))
	b.WriteString(fmt.Sprintf(":PRICE: %s\n", t.Price.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":AMOUNT: %s\n", t.Amount().StringFixed(2)))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", t.Time.UTC().Format(time.RFC3339)))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []broker.Transaction) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// shortID is the last 8 characters of a ULID, the part that differs
// between trades made in the same millisecond.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
