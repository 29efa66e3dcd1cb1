package sim

import (
	"sort"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/market"
	"github.com/shopspring/decimal"
)

// findPositionLocked returns the index of symbol in e.state.Positions or -1.
func (e *Engine) findPositionLocked(symbol string) int {
	for i := range e.state.Positions {
		if e.state.Positions[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

// addToPosition blends a buy into an existing position.
//
//	avg = (avg*shares + cost) / (shares + qty)
func addToPosition(p *broker.Position, qty, price decimal.Decimal) {
	total := p.AvgPrice.Mul(p.Shares).Add(qty.Mul(price))
	p.Shares = p.Shares.Add(qty)
	p.AvgPrice = total.Div(p.Shares)
	p.CurrentPrice = price
}

func newPosition(in market.Instrument, qty decimal.Decimal) broker.Position {
	return broker.Position{
		Symbol:       in.Symbol,
		Name:         in.Name,
		Class:        in.Class,
		Shares:       qty,
		AvgPrice:     in.Price,
		CurrentPrice: in.Price,
	}
}

// insertPositionLocked keeps Positions sorted by symbol.
func (e *Engine) insertPositionLocked(p broker.Position) {
	ps := e.state.Positions
	i := sort.Search(len(ps), func(i int) bool { return ps[i].Symbol >= p.Symbol })
	ps = append(ps, broker.Position{})
	copy(ps[i+1:], ps[i:])
	ps[i] = p
	e.state.Positions = ps
}

func (e *Engine) removePositionLocked(i int) {
	e.state.Positions = append(e.state.Positions[:i], e.state.Positions[i+1:]...)
}

// positionsValueLocked is the market value of all positions.
func (e *Engine) positionsValueLocked() decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.state.Positions {
		total = total.Add(p.MarketValue())
	}
	return total
}
