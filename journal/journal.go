// journal/journal.go
package journal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// ErrNoState is returned by Store.Load when nothing has been saved yet. The
// caller starts from a fresh account.
var ErrNoState = errors.New("no saved state")

// EquitySnapshot is the account valuation at one price tick.
type EquitySnapshot struct {
	Time           time.Time
	Cash           decimal.Decimal
	PositionsValue decimal.Decimal
	PortfolioValue decimal.Decimal
}

// Store persists the full account state.
type Store interface {
	Load(ctx context.Context) (broker.State, error)
	Save(ctx context.Context, st broker.State) error
}

// Journal is an append-only record of executed trades and equity over time.
// Unlike the state's transaction log it is not capped.
type Journal interface {
	RecordTransaction(broker.Transaction) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Memory is an in-process Store and Journal.
type Memory struct {
	mu           sync.Mutex
	state        *broker.State
	saves        int
	transactions []broker.Transaction
	equity       []EquitySnapshot
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(ctx context.Context) (broker.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return broker.State{}, ErrNoState
	}
	return m.state.Clone(), nil
}

func (m *Memory) Save(ctx context.Context, st broker.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := st.Clone()
	m.state = &c
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) RecordTransaction(t broker.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *Memory) RecordEquity(e EquitySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equity = append(m.equity, e)
	return nil
}

// Transactions returns every recorded transaction, oldest first.
func (m *Memory) Transactions() []broker.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]broker.Transaction(nil), m.transactions...)
}

// Equity returns every recorded snapshot, oldest first.
func (m *Memory) Equity() []EquitySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EquitySnapshot(nil), m.equity...)
}

func (m *Memory) Close() error { return nil }

// Tee writes every record to each journal in order. Errors from all of
// them are combined.
type Tee []Journal

func (t Tee) RecordTransaction(tx broker.Transaction) error {
	var err error
	for _, j := range t {
		err = multierr.Append(err, j.RecordTransaction(tx))
	}
	return err
}

func (t Tee) RecordEquity(e EquitySnapshot) error {
	var err error
	for _, j := range t {
		err = multierr.Append(err, j.RecordEquity(e))
	}
	return err
}

func (t Tee) Close() error {
	var err error
	for _, j := range t {
		err = multierr.Append(err, j.Close())
	}
	return err
}
