package sim

import (
	"context"
	"testing"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchlistAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mkt := newFakeMarket(map[string]string{"AAPL": "150", "MSFT": "300"})
	mem := journal.NewMemory()
	e := NewEngine(broker.NewState(d("1000"), []string{"MSFT"}), mkt, WithStore(mem))

	require.NoError(t, e.AddToWatchlist(ctx, "AAPL"))
	require.NoError(t, e.AddToWatchlist(ctx, "aapl"))
	require.NoError(t, e.AddToWatchlist(ctx, "MSFT"))

	assert.Equal(t, []string{"MSFT", "AAPL"}, e.Watchlist())
	assert.Equal(t, 1, mem.Saves())
}

func TestWatchlistLenientAcceptsUnknown(t *testing.T) {
	mkt := newFakeMarket(map[string]string{"AAPL": "150"})
	e := NewEngine(broker.NewState(d("1000"), nil), mkt)

	require.NoError(t, e.AddToWatchlist(context.Background(), "NOPE"))
	assert.Equal(t, []string{"NOPE"}, e.Watchlist())
}

func TestWatchlistStrictRejectsUnknown(t *testing.T) {
	mkt := newFakeMarket(map[string]string{"AAPL": "150"})
	var events []notify.Event
	e := NewEngine(broker.NewState(d("1000"), nil), mkt,
		WithStrictWatchlist(true),
		WithNotifier(notify.Func(func(ev notify.Event) { events = append(events, ev) })),
	)

	err := e.AddToWatchlist(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, broker.ErrUnknownSymbol)
	assert.Empty(t, e.Watchlist())

	require.NoError(t, e.AddToWatchlist(context.Background(), "AAPL"))
	assert.Equal(t, []string{"AAPL"}, e.Watchlist())

	require.Len(t, events, 2)
	assert.Equal(t, "Ticker not found", events[0].Title)
	assert.Equal(t, notify.WatchlistAdded, events[1].Kind)
}

func TestWatchlistRemove(t *testing.T) {
	ctx := context.Background()
	mkt := newFakeMarket(nil)
	mem := journal.NewMemory()
	var events []notify.Event
	e := NewEngine(broker.NewState(d("1000"), []string{"MSFT", "NVDA", "META"}), mkt,
		WithStore(mem),
		WithNotifier(notify.Func(func(ev notify.Event) { events = append(events, ev) })),
	)

	e.RemoveFromWatchlist(ctx, "NVDA")
	assert.Equal(t, []string{"MSFT", "META"}, e.Watchlist())

	e.RemoveFromWatchlist(ctx, "NVDA")
	assert.Equal(t, []string{"MSFT", "META"}, e.Watchlist())
	assert.Equal(t, 1, mem.Saves())

	require.Len(t, events, 2)
	assert.Equal(t, notify.WatchlistRemoved, events[0].Kind)
	assert.Equal(t, notify.WatchlistSkipped, events[1].Kind)
	assert.Equal(t, "NVDA is not in your watchlist", events[1].Message)
}

func TestWatchlistEmptySymbol(t *testing.T) {
	e := NewEngine(broker.NewState(d("1000"), nil), newFakeMarket(nil))
	err := e.AddToWatchlist(context.Background(), "  ")
	assert.ErrorIs(t, err, broker.ErrUnknownSymbol)
	assert.Empty(t, e.Watchlist())
}
