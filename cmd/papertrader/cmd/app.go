package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rustyeddy/papertrader/config"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/logging"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/rustyeddy/papertrader/sim"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// app is everything a command needs: one account bound to its store and
// a simulated market.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   journal.Store
	journal journal.Journal
	market  *market.Simulator
	engine  *sim.Engine
}

// openApp loads config and opens the account. Events go to the log and to
// any extra notifiers.
func openApp(ctx context.Context, extra ...notify.Notifier) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger}
	if err := a.openStore(); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	catalog := market.DefaultCatalog()
	if cfg.Market.CatalogFile != "" {
		catalog, err = market.LoadCatalog(cfg.Market.CatalogFile)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	var rng market.Rand
	if cfg.Market.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Market.Seed))
	}
	a.market, err = market.NewSimulator(catalog, rng)
	if err != nil {
		a.Close()
		return nil, err
	}

	st, err := sim.LoadState(ctx, a.store,
		decimal.NewFromFloat(cfg.Account.InitialCash), cfg.Watchlist.Defaults)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []sim.Option{
		sim.WithStore(a.store),
		sim.WithLogger(logger),
		sim.WithNotifier(append(notify.Multi{notify.NewLog(logger)}, extra...)),
		sim.WithStrictWatchlist(cfg.Watchlist.Strict),
	}
	if a.journal != nil {
		opts = append(opts, sim.WithJournal(a.journal))
	}
	a.engine = sim.NewEngine(st, a.market, opts...)
	// Positions loaded from disk carry the prices of the last run.
	a.engine.RevaluePositions()

	logger.Debug("account opened",
		zap.String("account", cfg.Account.ID),
		zap.String("store", cfg.Store.Type),
		zap.Int("instruments", len(catalog)),
	)
	return a, nil
}

func (a *app) openStore() error {
	var tee journal.Tee
	switch a.cfg.Store.Type {
	case "sqlite":
		db, err := journal.NewSQLite(a.cfg.Store.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		a.store = db
		tee = append(tee, db)
	case "file":
		a.store = journal.NewFile(a.cfg.Store.FilePath)
	case "memory":
		mem := journal.NewMemory()
		a.store = mem
		tee = append(tee, mem)
	default:
		return fmt.Errorf("unknown store type %q", a.cfg.Store.Type)
	}

	if dir := a.cfg.Store.CSVDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = tee.Close()
			return fmt.Errorf("create csv dir: %w", err)
		}
		csvj, err := journal.NewCSV(filepath.Join(dir, "trades.csv"), filepath.Join(dir, "equity.csv"))
		if err != nil {
			_ = tee.Close()
			return fmt.Errorf("open csv journal: %w", err)
		}
		tee = append(tee, csvj)
	}
	if len(tee) > 0 {
		a.journal = tee
	}
	return nil
}

// Close releases the store and journal and flushes the logger.
func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.Warn("close journal", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
