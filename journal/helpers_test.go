package journal

import (
	"time"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/market"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleState() broker.State {
	t0 := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return broker.State{
		InitialCash: d("100000"),
		Cash:        d("96900"),
		Positions: []broker.Position{
			{Symbol: "AAPL", Name: "Apple Inc.", Class: market.Equity, Shares: d("20"), AvgPrice: d("155"), CurrentPrice: d("160")},
			{Symbol: "ADA", Name: "Cardano", Class: market.Crypto, Shares: d("0.5"), AvgPrice: d("0.5512"), CurrentPrice: d("0.5601")},
		},
		Transactions: []broker.Transaction{
			{ID: "T2", Symbol: "AAPL", Side: broker.Buy, Quantity: d("10"), Price: d("160"), Time: t0.Add(time.Minute)},
			{ID: "T1", Symbol: "AAPL", Side: broker.Buy, Quantity: d("10"), Price: d("150"), Time: t0},
		},
		Watchlist: []string{"MSFT", "NVDA", "SOL"},
	}
}
