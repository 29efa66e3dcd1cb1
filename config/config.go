package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete paper trading configuration
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account" mapstructure:"account"`
	Market    MarketConfig    `json:"market" yaml:"market" mapstructure:"market"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Watchlist WatchlistConfig `json:"watchlist" yaml:"watchlist" mapstructure:"watchlist"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID          string  `json:"id" yaml:"id" mapstructure:"id"`
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash" mapstructure:"initial_cash"`
}

// MarketConfig controls the price simulator
type MarketConfig struct {
	TickInterval string `json:"tick_interval" yaml:"tick_interval" mapstructure:"tick_interval"` // e.g. "5s"
	Seed         int64  `json:"seed" yaml:"seed" mapstructure:"seed"`                            // 0 seeds from the clock
	CatalogFile  string `json:"catalog_file,omitempty" yaml:"catalog_file,omitempty" mapstructure:"catalog_file"`
}

// Interval parses TickInterval.
func (m MarketConfig) Interval() (time.Duration, error) {
	return time.ParseDuration(m.TickInterval)
}

// StoreConfig selects where account state is persisted
type StoreConfig struct {
	Type     string `json:"type" yaml:"type" mapstructure:"type"` // "sqlite", "file" or "memory"
	DBPath   string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty" mapstructure:"file_path"`
	CSVDir   string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty" mapstructure:"csv_dir"` // also journal trades.csv and equity.csv here
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level      string `json:"level" yaml:"level" mapstructure:"level"`                                       // "debug", "info", "warn", "error"
	Format     string `json:"format" yaml:"format" mapstructure:"format"`                                    // "json" or "console"
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty" mapstructure:"output_file"` // optional rotated log file
}

// WatchlistConfig contains watchlist behaviour
type WatchlistConfig struct {
	Strict   bool     `json:"strict" yaml:"strict" mapstructure:"strict"` // reject symbols missing from the catalog
	Defaults []string `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	d, err := c.Market.Interval()
	if err != nil {
		return fmt.Errorf("market.tick_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("market.tick_interval must be positive")
	}
	switch c.Store.Type {
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store db_path required for sqlite type")
		}
	case "file":
		if c.Store.FilePath == "" {
			return fmt.Errorf("store file_path required for file type")
		}
	case "memory":
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'file' or 'memory'")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	for _, sym := range c.Watchlist.Defaults {
		if sym == "" {
			return fmt.Errorf("watchlist.defaults contains an empty symbol")
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:          "PAPER-001",
			InitialCash: 100000,
		},
		Market: MarketConfig{
			TickInterval: "5s",
		},
		Store: StoreConfig{
			Type:     "sqlite",
			DBPath:   "./papertrader.db",
			FilePath: "./papertrader.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Watchlist: WatchlistConfig{
			Defaults: []string{"MSFT", "NVDA", "META", "SOL", "AMZN"},
		},
	}
}
