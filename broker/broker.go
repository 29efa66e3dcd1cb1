package broker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/papertrader/market"
	"github.com/shopspring/decimal"
)

// MaxTransactions is the capacity of the transaction log.
const MaxTransactions = 50

// Broker executes market orders against a single account.
type Broker interface {
	ExecuteTrade(ctx context.Context, symbol string, side Side, quantity decimal.Decimal) (Transaction, error)
	State() State
}

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

func (s Side) Valid() bool { return s == Buy || s == Sell }

// ParseSide accepts "buy" or "sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Position is a held quantity of one instrument. CurrentPrice is a copy of
// the instrument price as of the last revalue.
type Position struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Class        market.Class    `json:"class"`
	Shares       decimal.Decimal `json:"shares"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

func (p Position) MarketValue() decimal.Decimal { return p.Shares.Mul(p.CurrentPrice) }
func (p Position) CostBasis() decimal.Decimal   { return p.Shares.Mul(p.AvgPrice) }
func (p Position) UnrealizedPL() decimal.Decimal {
	return p.MarketValue().Sub(p.CostBasis())
}

// UnrealizedPLPercent is the unrealized P/L relative to cost, in percent.
func (p Position) UnrealizedPLPercent() decimal.Decimal {
	cost := p.CostBasis()
	if cost.IsZero() {
		return decimal.Zero
	}
	return p.UnrealizedPL().Div(cost).Mul(decimal.NewFromInt(100))
}

// Transaction is an executed trade. Transactions are never modified.
type Transaction struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Side     Side            `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Time     time.Time       `json:"time"`
}

// Amount is the cash that changed hands.
func (t Transaction) Amount() decimal.Decimal { return t.Quantity.Mul(t.Price) }

// State is the complete account: what gets loaded at startup and saved
// after every change.
type State struct {
	InitialCash  decimal.Decimal `json:"initial_cash"`
	Cash         decimal.Decimal `json:"cash"`
	Positions    []Position      `json:"positions"`
	Transactions []Transaction   `json:"transactions"` // newest first
	Watchlist    []string        `json:"watchlist"`
}

// NewState returns a fresh account funded with initialCash.
func NewState(initialCash decimal.Decimal, watchlist []string) State {
	return State{
		InitialCash: initialCash,
		Cash:        initialCash,
		Watchlist:   append([]string(nil), watchlist...),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Positions = append([]Position(nil), s.Positions...)
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	out.Watchlist = append([]string(nil), s.Watchlist...)
	return out
}

// PortfolioValue is cash plus the market value of every position.
func (s State) PortfolioValue() decimal.Decimal {
	total := s.Cash
	for _, p := range s.Positions {
		total = total.Add(p.MarketValue())
	}
	return total
}

// TotalProfitLoss is the portfolio value relative to the initial cash.
func (s State) TotalProfitLoss() decimal.Decimal {
	return s.PortfolioValue().Sub(s.InitialCash)
}
