package sim

import (
	"context"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/notify"
	"go.uber.org/zap"
)

// AddToWatchlist appends symbol if it is not already present. Unknown
// symbols are accepted unless the engine was built WithStrictWatchlist.
func (e *Engine) AddToWatchlist(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return &broker.TradeError{Kind: broker.UnknownSymbol}
	}
	_, known := e.prices.Instrument(symbol)
	if e.strictWatchlist && !known {
		err := &broker.TradeError{Kind: broker.UnknownSymbol, Symbol: symbol}
		e.notify(notify.Event{
			Kind:     notify.WatchlistSkipped,
			Title:    "Ticker not found",
			Message:  symbol + " is not a listed instrument",
			Severity: notify.Error,
		})
		return err
	}

	e.mu.Lock()
	for _, s := range e.state.Watchlist {
		if s == symbol {
			e.mu.Unlock()
			e.notify(notify.Event{
				Kind:     notify.WatchlistSkipped,
				Title:    "Already Watching",
				Message:  symbol + " is already in your watchlist",
				Severity: notify.Info,
			})
			return nil
		}
	}
	e.state.Watchlist = append(e.state.Watchlist, symbol)
	ver, st := e.changedLocked()
	e.mu.Unlock()

	if !known {
		e.log.Warn("watching unlisted symbol", zap.String("symbol", symbol))
	}
	e.persist(ctx, ver, st)
	e.notify(notify.Event{
		Kind:     notify.WatchlistAdded,
		Title:    "Added to Watchlist",
		Message:  symbol + " added to your watchlist",
		Severity: notify.Success,
	})
	return nil
}

// RemoveFromWatchlist drops symbol. Removing a symbol that is not watched
// leaves the account unchanged and emits a skipped event.
func (e *Engine) RemoveFromWatchlist(ctx context.Context, symbol string) {
	symbol = normalizeSymbol(symbol)

	e.mu.Lock()
	idx := -1
	for i, s := range e.state.Watchlist {
		if s == symbol {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		e.notify(notify.Event{
			Kind:     notify.WatchlistSkipped,
			Title:    "Not Watching",
			Message:  symbol + " is not in your watchlist",
			Severity: notify.Info,
		})
		return
	}
	e.state.Watchlist = append(e.state.Watchlist[:idx], e.state.Watchlist[idx+1:]...)
	ver, st := e.changedLocked()
	e.mu.Unlock()

	e.persist(ctx, ver, st)
	e.notify(notify.Event{
		Kind:     notify.WatchlistRemoved,
		Title:    "Removed from Watchlist",
		Message:  symbol + " removed from your watchlist",
		Severity: notify.Info,
	})
}
