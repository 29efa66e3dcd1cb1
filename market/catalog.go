package market

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultWatchlist is the watchlist a fresh account starts with.
var DefaultWatchlist = []string{"MSFT", "NVDA", "META", "SOL", "AMZN"}

func listing(symbol, name string, class Class, price string) Listing {
	return Listing{Symbol: symbol, Name: name, Class: class, Price: decimal.RequireFromString(price)}
}

// DefaultCatalog returns the built-in seed catalog. Each call returns a fresh
// slice.
func DefaultCatalog() []Listing {
	return []Listing{
		// Tech
		listing("AAPL", "Apple Inc.", Equity, "165.00"),
		listing("MSFT", "Microsoft", Equity, "380.00"),
		listing("GOOGL", "Alphabet Inc.", Equity, "125.00"),
		listing("AMZN", "Amazon", Equity, "145.00"),
		listing("META", "Meta Platforms", Equity, "335.00"),
		listing("TSLA", "Tesla Inc.", Equity, "220.00"),
		listing("NVDA", "NVIDIA", Equity, "495.00"),
		listing("AMD", "AMD Inc.", Equity, "145.00"),
		listing("INTC", "Intel Corp.", Equity, "42.50"),
		listing("NFLX", "Netflix", Equity, "425.00"),

		// Finance
		listing("JPM", "JPMorgan Chase", Equity, "155.00"),
		listing("BAC", "Bank of America", Equity, "32.50"),
		listing("WFC", "Wells Fargo", Equity, "48.00"),
		listing("GS", "Goldman Sachs", Equity, "385.00"),
		listing("V", "Visa Inc.", Equity, "245.00"),

		// Healthcare
		listing("JNJ", "Johnson & Johnson", Equity, "162.00"),
		listing("UNH", "UnitedHealth", Equity, "485.00"),
		listing("PFE", "Pfizer Inc.", Equity, "28.50"),
		listing("MRNA", "Moderna", Equity, "95.00"),

		// Retail & consumer
		listing("WMT", "Walmart", Equity, "165.00"),
		listing("HD", "Home Depot", Equity, "325.00"),
		listing("NKE", "Nike Inc.", Equity, "105.00"),
		listing("SBUX", "Starbucks", Equity, "95.00"),
		listing("MCD", "McDonald's", Equity, "285.00"),

		// Energy
		listing("XOM", "Exxon Mobil", Equity, "105.00"),
		listing("CVX", "Chevron", Equity, "148.00"),

		// Media
		listing("DIS", "Walt Disney", Equity, "92.00"),
		listing("SPOT", "Spotify", Equity, "185.00"),

		// Automotive
		listing("F", "Ford Motor", Equity, "12.50"),
		listing("GM", "General Motors", Equity, "38.00"),

		// Aerospace
		listing("BA", "Boeing", Equity, "215.00"),
		listing("LMT", "Lockheed Martin", Equity, "445.00"),

		// Crypto
		listing("BTC", "Bitcoin", Crypto, "45000.00"),
		listing("ETH", "Ethereum", Crypto, "2200.00"),
		listing("SOL", "Solana", Crypto, "125.50"),
		listing("ADA", "Cardano", Crypto, "0.55"),
		listing("DOT", "Polkadot", Crypto, "7.50"),
		listing("AVAX", "Avalanche", Crypto, "38.00"),
		listing("MATIC", "Polygon", Crypto, "0.85"),
		listing("LINK", "Chainlink", Crypto, "15.50"),
		listing("UNI", "Uniswap", Crypto, "8.50"),
		listing("XRP", "Ripple", Crypto, "0.62"),
	}
}

type catalogFile struct {
	Instruments []catalogEntry `yaml:"instruments"`
}

type catalogEntry struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
	Class  string `yaml:"class"`
	Price  string `yaml:"price"`
}

// LoadCatalog reads a seed catalog from a YAML (or JSON) file of the form
//
//	instruments:
//	  - {symbol: AAPL, name: Apple Inc., class: equity, price: "165.00"}
func LoadCatalog(path string) ([]Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) ([]Listing, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := make([]Listing, 0, len(f.Instruments))
	for i, e := range f.Instruments {
		price, err := decimal.NewFromString(strings.TrimSpace(e.Price))
		if err != nil {
			return nil, &ConfigError{Index: i, Symbol: e.Symbol, Reason: fmt.Sprintf("bad price %q", e.Price)}
		}
		out = append(out, Listing{
			Symbol: e.Symbol,
			Name:   e.Name,
			Class:  Class(strings.ToLower(e.Class)),
			Price:  price,
		})
	}
	if err := validateCatalog(out); err != nil {
		return nil, err
	}
	return out, nil
}
