// Package notify delivers user-facing events about account operations.
package notify

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Kind string

const (
	TradeExecuted    Kind = "trade.executed"
	TradeRejected    Kind = "trade.rejected"
	WatchlistAdded   Kind = "watchlist.added"
	WatchlistRemoved Kind = "watchlist.removed"
	WatchlistSkipped Kind = "watchlist.skipped"
	PricesUpdated    Kind = "prices.updated"
)

type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Event is a rendered message about one operation.
type Event struct {
	Kind     Kind
	Title    string
	Message  string
	Severity Severity
	Time     time.Time
}

// Notifier receives events. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

type Func func(Event)

func (f Func) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Notifier = Func(func(Event) {})

// Multi fans an event out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(e Event) {
	for _, n := range m {
		n.Notify(e)
	}
}

// Log writes events to a zap logger at a level matching their severity.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger.Named("notify")}
}

func (l *Log) Notify(e Event) {
	lvl := zapcore.InfoLevel
	switch e.Severity {
	case Warning:
		lvl = zapcore.WarnLevel
	case Error:
		lvl = zapcore.ErrorLevel
	}
	if ce := l.logger.Check(lvl, e.Title); ce != nil {
		ce.Write(
			zap.String("kind", string(e.Kind)),
			zap.String("message", e.Message),
			zap.String("severity", string(e.Severity)),
		)
	}
}

// Chan buffers events on a channel for a consumer such as a UI loop. When
// the buffer is full the event is dropped and counted.
type Chan struct {
	C       chan Event
	logger  *zap.Logger
	dropped atomic.Int64
}

func NewChan(size int, logger *zap.Logger) *Chan {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chan{C: make(chan Event, size), logger: logger.Named("notify")}
}

func (c *Chan) Notify(e Event) {
	select {
	case c.C <- e:
	default:
		c.dropped.Add(1)
		c.logger.Warn("Event channel full, dropping event",
			zap.String("kind", string(e.Kind)))
	}
}

// Dropped is the number of events discarded because the buffer was full.
func (c *Chan) Dropped() int { return int(c.dropped.Load()) }
