package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"go.uber.org/zap"
)

// Ticker is what a Runner drives. *Engine implements it.
type Ticker interface {
	Tick(ctx context.Context) journal.EquitySnapshot
}

// Runner calls Tick on a fixed interval until its context is cancelled.
// While paused, intervals elapse without ticking.
type Runner struct {
	target   Ticker
	interval time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	paused bool
	ticks  int

	// OnTick, if set, is called after every tick with the snapshot.
	OnTick func(journal.EquitySnapshot)
}

func NewRunner(target Ticker, interval time.Duration, logger *zap.Logger) (*Runner, error) {
	if interval <= 0 {
		return nil, errors.New("runner: interval must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		target:   target,
		interval: interval,
		log:      logger.Named("runner"),
	}, nil
}

// Run blocks until ctx is done or maxTicks ticks have run. maxTicks <= 0
// runs until cancelled.
func (r *Runner) Run(ctx context.Context, maxTicks int) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	r.log.Info("runner started", zap.Duration("interval", r.interval), zap.Int("max_ticks", maxTicks))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("runner stopped", zap.Int("ticks", r.Ticks()))
			return ctx.Err()
		case <-t.C:
			if r.Paused() {
				continue
			}
			snap := r.target.Tick(ctx)
			n := r.incr()
			if r.OnTick != nil {
				r.OnTick(snap)
			}
			if maxTicks > 0 && n >= maxTicks {
				r.log.Info("runner finished", zap.Int("ticks", n))
				return nil
			}
		}
	}
}

func (r *Runner) Pause() {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
	r.log.Debug("paused")
}

func (r *Runner) Resume() {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
	r.log.Debug("resumed")
}

func (r *Runner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Ticks is the number of ticks run so far.
func (r *Runner) Ticks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

func (r *Runner) incr() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	return r.ticks
}
