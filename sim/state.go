package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/shopspring/decimal"
)

// LoadState reads the saved account from store, falling back to a fresh
// account with initialCash and the default watchlist when nothing has been
// saved.
func LoadState(ctx context.Context, store journal.Store, initialCash decimal.Decimal, watchlist []string) (broker.State, error) {
	st, err := store.Load(ctx)
	if errors.Is(err, journal.ErrNoState) {
		return broker.NewState(initialCash, watchlist), nil
	}
	if err != nil {
		return broker.State{}, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}
