package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g.
// PAPERTRADER_STORE_TYPE=memory or PAPERTRADER_ACCOUNT_INITIAL_CASH=5000.
const EnvPrefix = "PAPERTRADER"

// Load builds the configuration from defaults, an optional file and the
// environment, in increasing priority. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("account.id", d.Account.ID)
	v.SetDefault("account.initial_cash", d.Account.InitialCash)
	v.SetDefault("market.tick_interval", d.Market.TickInterval)
	v.SetDefault("market.seed", d.Market.Seed)
	v.SetDefault("market.catalog_file", d.Market.CatalogFile)
	v.SetDefault("store.type", d.Store.Type)
	v.SetDefault("store.db_path", d.Store.DBPath)
	v.SetDefault("store.file_path", d.Store.FilePath)
	v.SetDefault("store.csv_dir", d.Store.CSVDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_file", d.Log.OutputFile)
	v.SetDefault("watchlist.strict", d.Watchlist.Strict)
	v.SetDefault("watchlist.defaults", d.Watchlist.Defaults)
}
