package journal

import (
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/shopspring/decimal"
)

// Statement is an org-mode account statement.
type Statement struct {
	AccountID string
	Created   time.Time
	State     broker.State
}

var statementFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"pct":   func(d decimal.Decimal) string { return d.StringFixed(2) },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var statementTmpl = template.Must(template.New("statement").Funcs(statementFuncs).Parse(StatementOrgTemplate))

// WriteOrg renders the statement to w.
func (s Statement) WriteOrg(w io.Writer) error {
	return statementTmpl.Execute(w, s)
}

const StatementOrgTemplate = `* STATEMENT: {{if .AccountID}}{{.AccountID}}{{else}}(account?){{end}}
:PROPERTIES:
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:INITIAL:     {{money .State.InitialCash}}
:CASH:        {{money .State.Cash}}
:VALUE:       {{money .State.PortfolioValue}}
:TOTAL_PL:    {{money .State.TotalProfitLoss}}
:POSITIONS:   {{len .State.Positions}}
:END:

** Positions
| Symbol | Shares | Avg Price | Price | Value | P/L | P/L % |
|--------+--------+-----------+-------+-------+-----+-------|
{{- range .State.Positions }}
| {{.Symbol}} | {{.Shares}} | {{money .AvgPrice}} | {{.CurrentPrice}} | {{money .MarketValue}} | {{money .UnrealizedPL}} | {{pct .UnrealizedPLPercent}} |
{{- end }}

** Transactions
| Time | Side | Symbol | Quantity | Price |
|------+------+--------+----------+-------|
{{- range .State.Transactions }}
| {{.Time.Format "2006-01-02 15:04:05"}} | {{.Side}} | {{.Symbol}} | {{.Quantity}} | {{.Price}} |
{{- end }}

{{- if .State.Watchlist }}

** Watchlist
{{- range .State.Watchlist }}
- {{.}}
{{- end }}
{{- end }}
`
