package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/market"
)

// SQLite is a Store and Journal backed by a single SQLite database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; sqlite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Load(ctx context.Context) (broker.State, error) {
	var st broker.State

	err := j.db.QueryRowContext(ctx, `SELECT initial_cash, cash FROM account WHERE id = 1`).
		Scan(&st.InitialCash, &st.Cash)
	if err == sql.ErrNoRows {
		return broker.State{}, ErrNoState
	}
	if err != nil {
		return broker.State{}, fmt.Errorf("load account: %w", err)
	}

	if st.Positions, err = j.loadPositions(ctx); err != nil {
		return broker.State{}, err
	}
	if st.Transactions, err = j.queryTransactions(ctx, `
		SELECT id, symbol, side, quantity, price, time
		FROM transactions
		ORDER BY seq ASC`); err != nil {
		return broker.State{}, fmt.Errorf("load transactions: %w", err)
	}
	if st.Watchlist, err = j.loadWatchlist(ctx); err != nil {
		return broker.State{}, err
	}
	return st, nil
}

func (j *SQLite) loadPositions(ctx context.Context) ([]broker.Position, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT symbol, name, class, shares, avg_price, current_price
		FROM positions
		ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	defer rows.Close()

	var out []broker.Position
	for rows.Next() {
		var (
			p     broker.Position
			class string
		)
		if err := rows.Scan(&p.Symbol, &p.Name, &class, &p.Shares, &p.AvgPrice, &p.CurrentPrice); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.Class = market.Class(class)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (j *SQLite) loadWatchlist(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT symbol FROM watchlist ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan watchlist: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (j *SQLite) queryTransactions(ctx context.Context, query string, args ...any) ([]broker.Transaction, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []broker.Transaction
	for rows.Next() {
		var (
			t    broker.Transaction
			side string
		)
		if err := rows.Scan(&t.ID, &t.Symbol, &side, &t.Quantity, &t.Price, &t.Time); err != nil {
			return nil, err
		}
		t.Side = broker.Side(side)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Save replaces the stored state in one transaction.
func (j *SQLite) Save(ctx context.Context, st broker.State) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"account", "positions", "transactions", "watchlist"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO account (id, initial_cash, cash) VALUES (1, ?, ?)`,
		st.InitialCash.String(), st.Cash.String()); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	for _, p := range st.Positions {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO positions (symbol, name, class, shares, avg_price, current_price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.Symbol, p.Name, string(p.Class), p.Shares.String(), p.AvgPrice.String(), p.CurrentPrice.String(),
		); err != nil {
			return fmt.Errorf("save position %s: %w", p.Symbol, err)
		}
	}

	for i, t := range st.Transactions {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (seq, id, symbol, side, quantity, price, time)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, t.ID, t.Symbol, string(t.Side), t.Quantity.String(), t.Price.String(), t.Time.UTC(),
		); err != nil {
			return fmt.Errorf("save transaction %s: %w", t.ID, err)
		}
	}

	for i, sym := range st.Watchlist {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO watchlist (seq, symbol) VALUES (?, ?)`, i, sym); err != nil {
			return fmt.Errorf("save watchlist %s: %w", sym, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (j *SQLite) RecordTransaction(t broker.Transaction) error {
	_, err := j.db.Exec(`
		INSERT INTO trades (id, symbol, side, quantity, price, time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, string(t.Side), t.Quantity.String(), t.Price.String(), t.Time.UTC(),
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (time, cash, positions_value, portfolio_value)
		VALUES (?, ?, ?, ?)`,
		e.Time.UTC(), e.Cash.String(), e.PositionsValue.String(), e.PortfolioValue.String(),
	)
	return err
}

// ListTrades returns up to limit journaled trades, newest first. A limit of
// zero or less returns all of them.
func (j *SQLite) ListTrades(ctx context.Context, limit int) ([]broker.Transaction, error) {
	q := `SELECT id, symbol, side, quantity, price, time FROM trades ORDER BY time DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	out, err := j.queryTransactions(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return out, nil
}

// ListEquityBetween returns snapshots with time in [start, end), oldest first.
func (j *SQLite) ListEquityBetween(ctx context.Context, start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, cash, positions_value, portfolio_value
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("list equity: %w", err)
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.Time, &e.Cash, &e.PositionsValue, &e.PortfolioValue); err != nil {
			return nil, fmt.Errorf("scan equity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
