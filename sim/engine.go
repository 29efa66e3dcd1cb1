package sim

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/rustyeddy/papertrader/id"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceSource answers price queries for the engine. *market.Simulator is
// the production implementation.
type PriceSource interface {
	Instrument(symbol string) (market.Instrument, bool)
	Prices() map[string]decimal.Decimal
}

// Advancer moves prices one step. Tick calls it when the PriceSource
// implements it.
type Advancer interface {
	AdvancePrices()
}

// Engine is a single simulated brokerage account. All state is guarded by
// mu; saves, journal writes and notifications run after mu is released.
type Engine struct {
	mu     sync.Mutex
	state  broker.State
	prices PriceSource

	store           journal.Store
	journal         journal.Journal
	notifier        notify.Notifier
	log             *zap.Logger
	now             func() time.Time
	strictWatchlist bool

	// version counts state changes; saveMu serializes saves so an older
	// snapshot never overwrites a newer one.
	version uint64
	saveMu  sync.Mutex
	saved   uint64
}

var _ broker.Broker = (*Engine)(nil)

func NewEngine(state broker.State, prices PriceSource, opts ...Option) *Engine {
	e := &Engine{
		state:    state.Clone(),
		prices:   prices,
		notifier: notify.Discard,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	sort.Slice(e.state.Positions, func(i, j int) bool {
		return e.state.Positions[i].Symbol < e.state.Positions[j].Symbol
	})
	if len(e.state.Transactions) > broker.MaxTransactions {
		e.state.Transactions = e.state.Transactions[:broker.MaxTransactions]
	}
	return e
}

// ExecuteTrade fills a market order at the instrument's current price. A
// rejected trade returns a *broker.TradeError and leaves the account
// unchanged.
func (e *Engine) ExecuteTrade(ctx context.Context, symbol string, side broker.Side, quantity decimal.Decimal) (broker.Transaction, error) {
	symbol = normalizeSymbol(symbol)
	if !side.Valid() {
		err := fmt.Errorf("execute trade: unknown side %q", side)
		e.notify(notify.Event{
			Kind:     notify.TradeRejected,
			Title:    "Order Rejected",
			Message:  err.Error(),
			Severity: notify.Error,
		})
		return broker.Transaction{}, err
	}

	e.mu.Lock()
	tx, err := e.executeLocked(symbol, side, quantity)
	var (
		snap broker.State
		ver  uint64
	)
	if err == nil {
		ver, snap = e.changedLocked()
	}
	e.mu.Unlock()

	if err != nil {
		e.log.Info("trade rejected",
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
			zap.String("quantity", quantity.String()),
			zap.Error(err),
		)
		e.notify(rejectedEvent(err))
		return broker.Transaction{}, err
	}

	e.log.Info("trade executed",
		zap.String("id", tx.ID),
		zap.String("symbol", tx.Symbol),
		zap.String("side", string(tx.Side)),
		zap.String("quantity", tx.Quantity.String()),
		zap.String("price", tx.Price.StringFixed(2)),
	)
	if e.journal != nil {
		if err := e.journal.RecordTransaction(tx); err != nil {
			e.log.Warn("journal transaction", zap.String("id", tx.ID), zap.Error(err))
		}
	}
	e.persist(ctx, ver, snap)
	e.notify(executedEvent(tx))
	return tx, nil
}

func (e *Engine) executeLocked(symbol string, side broker.Side, qty decimal.Decimal) (broker.Transaction, error) {
	if !qty.IsPositive() {
		return broker.Transaction{}, &broker.TradeError{
			Kind: broker.InvalidQuantity, Symbol: symbol, Side: side, Requested: qty,
		}
	}
	in, ok := e.prices.Instrument(symbol)
	if !ok {
		return broker.Transaction{}, &broker.TradeError{
			Kind: broker.UnknownSymbol, Symbol: symbol, Side: side, Requested: qty,
		}
	}
	price := in.Price
	amount := qty.Mul(price)
	idx := e.findPositionLocked(symbol)

	switch side {
	case broker.Buy:
		if amount.GreaterThan(e.state.Cash) {
			return broker.Transaction{}, &broker.TradeError{
				Kind: broker.InsufficientFunds, Symbol: symbol, Side: side,
				Requested: amount, Available: e.state.Cash,
			}
		}
		if idx >= 0 {
			addToPosition(&e.state.Positions[idx], qty, price)
		} else {
			e.insertPositionLocked(newPosition(in, qty))
		}
		e.state.Cash = e.state.Cash.Sub(amount)

	case broker.Sell:
		if idx < 0 {
			return broker.Transaction{}, &broker.TradeError{
				Kind: broker.NoPosition, Symbol: symbol, Side: side, Requested: qty,
			}
		}
		p := &e.state.Positions[idx]
		if qty.GreaterThan(p.Shares) {
			return broker.Transaction{}, &broker.TradeError{
				Kind: broker.InsufficientShares, Symbol: symbol, Side: side,
				Requested: qty, Available: p.Shares,
			}
		}
		if qty.Equal(p.Shares) {
			e.removePositionLocked(idx)
		} else {
			p.Shares = p.Shares.Sub(qty)
			p.CurrentPrice = price
		}
		e.state.Cash = e.state.Cash.Add(amount)
	}

	now := e.now()
	tx := broker.Transaction{
		ID:       id.New(now),
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Price:    price,
		Time:     now,
	}
	e.recordLocked(tx)
	return tx, nil
}

// recordLocked prepends tx to the transaction log and drops the oldest
// entries beyond broker.MaxTransactions.
func (e *Engine) recordLocked(tx broker.Transaction) {
	n := len(e.state.Transactions) + 1
	if n > broker.MaxTransactions {
		n = broker.MaxTransactions
	}
	txs := make([]broker.Transaction, n)
	txs[0] = tx
	copy(txs[1:], e.state.Transactions)
	e.state.Transactions = txs
}

// RevaluePositions copies the current market price into every position.
// Shares and average price are untouched.
func (e *Engine) RevaluePositions() {
	prices := e.prices.Prices()

	e.mu.Lock()
	e.revalueLocked(prices)
	e.mu.Unlock()
}

func (e *Engine) revalueLocked(prices map[string]decimal.Decimal) {
	for i := range e.state.Positions {
		p := &e.state.Positions[i]
		if px, ok := prices[p.Symbol]; ok {
			p.CurrentPrice = px
		}
	}
}

// Tick advances the market one step, revalues all positions and records an
// equity snapshot. The Runner calls it on every interval.
func (e *Engine) Tick(ctx context.Context) journal.EquitySnapshot {
	if a, ok := e.prices.(Advancer); ok {
		a.AdvancePrices()
	}
	prices := e.prices.Prices()

	e.mu.Lock()
	e.revalueLocked(prices)
	posValue := e.positionsValueLocked()
	snap := journal.EquitySnapshot{
		Time:           e.now(),
		Cash:           e.state.Cash,
		PositionsValue: posValue,
		PortfolioValue: e.state.Cash.Add(posValue),
	}
	var (
		st  broker.State
		ver uint64
	)
	if len(e.state.Positions) > 0 {
		ver, st = e.changedLocked()
	}
	e.mu.Unlock()

	if e.journal != nil {
		if err := e.journal.RecordEquity(snap); err != nil {
			e.log.Warn("journal equity", zap.Error(err))
		}
	}
	if ver > 0 {
		e.persist(ctx, ver, st)
	}
	e.log.Debug("tick",
		zap.String("cash", snap.Cash.StringFixed(2)),
		zap.String("portfolio_value", snap.PortfolioValue.StringFixed(2)),
	)
	e.notify(notify.Event{
		Kind:     notify.PricesUpdated,
		Title:    "Prices Updated",
		Message:  "Portfolio value " + snap.PortfolioValue.StringFixed(2),
		Severity: notify.Info,
		Time:     snap.Time,
	})
	return snap
}

// PortfolioValue is cash plus the market value of every position.
func (e *Engine) PortfolioValue() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PortfolioValue()
}

// TotalProfitLoss is the portfolio value minus the initial cash.
func (e *Engine) TotalProfitLoss() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.TotalProfitLoss()
}

func (e *Engine) Cash() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Cash
}

// Positions returns a copy of the open positions sorted by symbol.
func (e *Engine) Positions() []broker.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]broker.Position(nil), e.state.Positions...)
}

func (e *Engine) Position(symbol string) (broker.Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.findPositionLocked(normalizeSymbol(symbol)); i >= 0 {
		return e.state.Positions[i], true
	}
	return broker.Position{}, false
}

// Transactions returns a copy of the log, newest first.
func (e *Engine) Transactions() []broker.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]broker.Transaction(nil), e.state.Transactions...)
}

func (e *Engine) Watchlist() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.state.Watchlist...)
}

// State returns a deep copy of the whole account.
func (e *Engine) State() broker.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// changedLocked bumps the version and returns it with a snapshot to save.
func (e *Engine) changedLocked() (uint64, broker.State) {
	e.version++
	return e.version, e.state.Clone()
}

// persist saves st unless a newer version has already been written. Save
// errors are logged; the in-memory state stays authoritative.
func (e *Engine) persist(ctx context.Context, ver uint64, st broker.State) {
	if e.store == nil {
		return
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if ver <= e.saved {
		return
	}
	if err := e.store.Save(ctx, st); err != nil {
		e.log.Error("save state", zap.Uint64("version", ver), zap.Error(err))
		return
	}
	e.saved = ver
}

func (e *Engine) notify(ev notify.Event) {
	if ev.Time.IsZero() {
		ev.Time = e.now()
	}
	e.notifier.Notify(ev)
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func executedEvent(tx broker.Transaction) notify.Event {
	verb := "Bought"
	if tx.Side == broker.Sell {
		verb = "Sold"
	}
	return notify.Event{
		Kind:     notify.TradeExecuted,
		Title:    "Order Executed",
		Message:  fmt.Sprintf("%s %s %s at $%s", verb, tx.Quantity, tx.Symbol, tx.Price.StringFixed(2)),
		Severity: notify.Success,
		Time:     tx.Time,
	}
}

func rejectedEvent(err error) notify.Event {
	title := "Order Rejected"
	switch broker.KindOf(err) {
	case broker.UnknownSymbol:
		title = "Ticker not found"
	case broker.InsufficientFunds:
		title = "Insufficient Funds"
	case broker.InsufficientShares:
		title = "Insufficient Shares"
	case broker.NoPosition:
		title = "No Position"
	case broker.InvalidQuantity:
		title = "Invalid Quantity"
	}
	return notify.Event{
		Kind:     notify.TradeRejected,
		Title:    title,
		Message:  err.Error(),
		Severity: notify.Error,
	}
}
