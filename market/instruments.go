// market/instruments.go
package market

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Class is the asset class of an instrument.
type Class string

const (
	Equity Class = "equity"
	Crypto Class = "crypto"
)

func (c Class) Valid() bool {
	return c == Equity || c == Crypto
}

// Listing is one entry of the seed catalog.
type Listing struct {
	Symbol string
	Name   string
	Class  Class
	Price  decimal.Decimal
}

// Instrument is a tradable symbol and its latest simulated price. Change and
// ChangePercent describe the most recent price step.
type Instrument struct {
	Symbol        string
	Name          string
	Class         Class
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}

// ErrConfig is wrapped by every catalog validation failure.
var ErrConfig = errors.New("invalid catalog")

// ConfigError reports a malformed seed catalog entry. A simulator cannot be
// built from a catalog that produces one.
type ConfigError struct {
	Index  int
	Symbol string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("catalog entry %d (%q): %s", e.Index, e.Symbol, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

func validateCatalog(catalog []Listing) error {
	seen := make(map[string]struct{}, len(catalog))
	for i, l := range catalog {
		switch {
		case l.Symbol == "":
			return &ConfigError{Index: i, Symbol: l.Symbol, Reason: "empty symbol"}
		case l.Symbol != strings.ToUpper(strings.TrimSpace(l.Symbol)):
			return &ConfigError{Index: i, Symbol: l.Symbol, Reason: "symbol must be upper case without spaces"}
		case !l.Class.Valid():
			return &ConfigError{Index: i, Symbol: l.Symbol, Reason: fmt.Sprintf("unknown class %q", l.Class)}
		case !l.Price.IsPositive():
			return &ConfigError{Index: i, Symbol: l.Symbol, Reason: fmt.Sprintf("price must be positive, got %s", l.Price)}
		}
		if _, dup := seen[l.Symbol]; dup {
			return &ConfigError{Index: i, Symbol: l.Symbol, Reason: "duplicate symbol"}
		}
		seen[l.Symbol] = struct{}{}
	}
	return nil
}
