package sim

import (
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/notify"
	"go.uber.org/zap"
)

// Option configures an Engine.
type Option func(*Engine)

// WithStore persists the account state after every change.
func WithStore(s journal.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithJournal records every executed trade and an equity snapshot per tick.
func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l.Named("engine")
		}
	}
}

// WithClock sets the time source used to stamp transactions and snapshots.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithStrictWatchlist rejects watchlist symbols that are not in the catalog.
func WithStrictWatchlist(strict bool) Option {
	return func(e *Engine) { e.strictWatchlist = strict }
}
