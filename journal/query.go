package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/papertrader/broker"
)

// ErrTradeNotFound is returned by GetTrade for an unknown ID.
var ErrTradeNotFound = errors.New("trade not found")

// GetTrade returns a single journaled trade by ID.
func (j *SQLite) GetTrade(ctx context.Context, id string) (broker.Transaction, error) {
	out, err := j.queryTransactions(ctx, `
		SELECT id, symbol, side, quantity, price, time
		FROM trades
		WHERE id = ?`, id)
	if err != nil {
		return broker.Transaction{}, fmt.Errorf("get trade: %w", err)
	}
	if len(out) == 0 {
		return broker.Transaction{}, fmt.Errorf("%w: %q", ErrTradeNotFound, id)
	}
	return out[0], nil
}

// ListTradesBetween returns trades executed within [start, end), oldest first.
func (j *SQLite) ListTradesBetween(ctx context.Context, start, end time.Time) ([]broker.Transaction, error) {
	out, err := j.queryTransactions(ctx, `
		SELECT id, symbol, side, quantity, price, time
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return out, nil
}

// DayBounds returns [00:00, next 00:00) of day in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
