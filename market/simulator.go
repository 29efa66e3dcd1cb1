package market

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Rand is the random source driving the price walk. *math/rand.Rand
// satisfies it.
type Rand interface {
	Float64() float64
}

var (
	hundred = decimal.NewFromInt(100)

	// PriceFloor is the lowest price a step can produce.
	PriceFloor = decimal.RequireFromString("0.01")

	// MaxStepPercent bounds a single step to [-MaxStepPercent, +MaxStepPercent].
	MaxStepPercent = 2.0

	lowPriceThreshold = decimal.NewFromInt(10)
)

// Simulator owns the instrument catalog and evolves prices with a bounded
// random walk. It is safe for concurrent use.
type Simulator struct {
	mu          sync.RWMutex
	rng         Rand
	order       []string
	instruments map[string]*Instrument
}

// NewSimulator validates the catalog and returns a simulator seeded with it.
// A nil rng is replaced with a time-seeded generator.
func NewSimulator(catalog []Listing, rng Rand) (*Simulator, error) {
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Simulator{
		rng:         rng,
		order:       make([]string, 0, len(catalog)),
		instruments: make(map[string]*Instrument, len(catalog)),
	}
	for _, l := range catalog {
		s.order = append(s.order, l.Symbol)
		s.instruments[l.Symbol] = &Instrument{
			Symbol: l.Symbol,
			Name:   l.Name,
			Class:  l.Class,
			Price:  l.Price,
		}
	}
	return s, nil
}

// Instrument looks up a symbol. The match is exact and case-sensitive.
func (s *Simulator) Instrument(symbol string) (Instrument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.instruments[symbol]
	if !ok {
		return Instrument{}, false
	}
	return *in, true
}

// Instruments returns every instrument in catalog order.
func (s *Simulator) Instruments() []Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Instrument, 0, len(s.order))
	for _, sym := range s.order {
		out = append(out, *s.instruments[sym])
	}
	return out
}

// Search returns the instruments whose symbol or name contains query,
// ignoring case, in catalog order. An empty query matches everything.
func (s *Simulator) Search(query string) []Instrument {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.Instruments()
	if q == "" {
		return all
	}
	out := all[:0]
	for _, in := range all {
		if strings.Contains(strings.ToLower(in.Symbol), q) || strings.Contains(strings.ToLower(in.Name), q) {
			out = append(out, in)
		}
	}
	return out
}

// Prices returns a snapshot of every current price taken under a single
// lock, so callers never see a half-advanced catalog.
func (s *Simulator) Prices() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(s.instruments))
	for sym, in := range s.instruments {
		out[sym] = in.Price
	}
	return out
}

// AdvancePrices moves every instrument one step. Each step draws a percent
// change uniformly from [-2, +2].
func (s *Simulator) AdvancePrices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sym := range s.order {
		pct := (s.rng.Float64() - 0.5) * 2 * MaxStepPercent
		Step(s.instruments[sym], decimal.NewFromFloat(pct))
	}
}

// Step applies a percent change to in. The new price is floored at
// PriceFloor and rounded to the instrument's price precision; Change holds
// the actual difference after flooring and rounding.
func Step(in *Instrument, pct decimal.Decimal) {
	old := in.Price
	next := old.Add(old.Mul(pct).Div(hundred))
	if next.LessThan(PriceFloor) {
		next = PriceFloor
	}
	next = next.Round(Precision(in.Class, old))

	in.Price = next
	in.Change = next.Sub(old)
	in.ChangePercent = pct.Round(2)
}

// Precision is the number of decimal places prices are kept at: 4 for
// crypto priced under 10, 2 otherwise.
func Precision(class Class, price decimal.Decimal) int32 {
	if class == Crypto && price.LessThan(lowPriceThreshold) {
		return 4
	}
	return 2
}
