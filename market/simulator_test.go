package market

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fixedRand replays a list of draws, cycling when exhausted.
type fixedRand struct {
	draws []float64
	i     int
}

func (r *fixedRand) Float64() float64 {
	v := r.draws[r.i%len(r.draws)]
	r.i++
	return v
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestNewSimulatorRejectsBadCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catalog []Listing
		reason  string
	}{
		{
			name: "duplicate symbol",
			catalog: []Listing{
				{Symbol: "AAPL", Class: Equity, Price: d("1")},
				{Symbol: "AAPL", Class: Equity, Price: d("2")},
			},
			reason: "duplicate symbol",
		},
		{
			name:    "zero price",
			catalog: []Listing{{Symbol: "AAPL", Class: Equity, Price: d("0")}},
			reason:  "price must be positive",
		},
		{
			name:    "negative price",
			catalog: []Listing{{Symbol: "AAPL", Class: Equity, Price: d("-5")}},
			reason:  "price must be positive",
		},
		{
			name:    "empty symbol",
			catalog: []Listing{{Symbol: "", Class: Equity, Price: d("5")}},
			reason:  "empty symbol",
		},
		{
			name:    "unknown class",
			catalog: []Listing{{Symbol: "X", Class: "bond", Price: d("5")}},
			reason:  "unknown class",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewSimulator(tt.catalog, nil)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrConfig))

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, ce.Reason, tt.reason)
		})
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	t.Parallel()

	cat := DefaultCatalog()
	assert.Len(t, cat, 42)
	s, err := NewSimulator(cat, nil)
	require.NoError(t, err)

	crypto := 0
	for _, in := range s.Instruments() {
		if in.Class == Crypto {
			crypto++
		}
	}
	assert.Equal(t, 10, crypto)

	for _, sym := range DefaultWatchlist {
		_, ok := s.Instrument(sym)
		assert.True(t, ok, sym)
	}
}

func TestInstrumentLookup(t *testing.T) {
	t.Parallel()

	s, err := NewSimulator(DefaultCatalog(), nil)
	require.NoError(t, err)

	in, ok := s.Instrument("AAPL")
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", in.Name)
	assertDecimal(t, "165", in.Price)

	_, ok = s.Instrument("aapl")
	assert.False(t, ok, "lookup is case-sensitive")

	_, ok = s.Instrument("NOPE")
	assert.False(t, ok)
}

func TestInstrumentsKeepsCatalogOrder(t *testing.T) {
	t.Parallel()

	cat := DefaultCatalog()
	s, err := NewSimulator(cat, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	s.AdvancePrices()

	got := s.Instruments()
	require.Len(t, got, len(cat))
	for i := range cat {
		assert.Equal(t, cat[i].Symbol, got[i].Symbol)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	s, err := NewSimulator(DefaultCatalog(), nil)
	require.NoError(t, err)

	syms := func(ins []Instrument) []string {
		var out []string
		for _, in := range ins {
			out = append(out, in.Symbol)
		}
		return out
	}

	assert.Equal(t, []string{"BTC"}, syms(s.Search("bitcoin")))
	assert.Equal(t, []string{"MSFT"}, syms(s.Search("micro")))
	assert.Equal(t, []string{"AMD"}, syms(s.Search("amd")))
	assert.Len(t, s.Search(""), 42)
	assert.Empty(t, s.Search("zzz"))
}

func TestStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		class      Class
		price      string
		pct        string
		wantPrice  string
		wantChange string
	}{
		{"equity up", Equity, "150.00", "2", "153.00", "3.00"},
		{"equity down", Equity, "150.00", "-2", "147.00", "-3.00"},
		{"equity rounds to cents", Equity, "42.50", "1.234", "43.02", "0.52"},
		{"cheap crypto keeps 4 places", Crypto, "0.55", "-2", "0.539", "-0.011"},
		{"crypto over 10 uses 2 places", Crypto, "15.50", "1.111", "15.67", "0.17"},
		{"floor", Equity, "0.01", "-2", "0.01", "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := &Instrument{Symbol: "X", Class: tt.class, Price: d(tt.price)}
			Step(in, d(tt.pct))
			assertDecimal(t, tt.wantPrice, in.Price)
			assertDecimal(t, tt.wantChange, in.Change)
			assertDecimal(t, d(tt.pct).Round(2).String(), in.ChangePercent)
		})
	}
}

func TestAdvancePricesIsDeterministic(t *testing.T) {
	t.Parallel()

	a, err := NewSimulator(DefaultCatalog(), rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := NewSimulator(DefaultCatalog(), rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		a.AdvancePrices()
		b.AdvancePrices()
	}
	ai, bi := a.Instruments(), b.Instruments()
	require.Len(t, bi, len(ai))
	for i := range ai {
		assert.Equal(t, ai[i].Symbol, bi[i].Symbol)
		assert.True(t, ai[i].Price.Equal(bi[i].Price), ai[i].Symbol)
		assert.True(t, ai[i].ChangePercent.Equal(bi[i].ChangePercent), ai[i].Symbol)
	}
}

func TestAdvancePricesBoundedStep(t *testing.T) {
	t.Parallel()

	// 0 and 1 are the extremes of the draw: -2% and +2%.
	s, err := NewSimulator([]Listing{
		{Symbol: "A", Class: Equity, Price: d("100")},
		{Symbol: "B", Class: Equity, Price: d("100")},
	}, &fixedRand{draws: []float64{0, 1}})
	require.NoError(t, err)

	s.AdvancePrices()
	a, _ := s.Instrument("A")
	b, _ := s.Instrument("B")
	assertDecimal(t, "98", a.Price)
	assertDecimal(t, "-2", a.ChangePercent)
	assertDecimal(t, "102", b.Price)
	assertDecimal(t, "2", b.ChangePercent)
}

func TestPriceFloorUnderRepeatedDrops(t *testing.T) {
	t.Parallel()

	s, err := NewSimulator([]Listing{
		{Symbol: "PENNY", Class: Equity, Price: d("0.05")},
		{Symbol: "DUST", Class: Crypto, Price: d("0.02")},
	}, &fixedRand{draws: []float64{0}})
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		s.AdvancePrices()
		for _, in := range s.Instruments() {
			require.True(t, in.Price.GreaterThanOrEqual(PriceFloor), "%s fell to %s", in.Symbol, in.Price)
		}
	}
	// Cent rounding pins PENNY near 0.05; DUST has 4 places and decays to the floor.
	p, _ := s.Instrument("DUST")
	assertDecimal(t, "0.01", p.Price)
}

func TestPricesNeverDropBelowFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		price := rapid.Float64Range(0.01, 100000).Draw(t, "price")
		class := rapid.SampledFrom([]Class{Equity, Crypto}).Draw(t, "class")
		draws := rapid.SliceOfN(rapid.Float64Range(0, 1), 1, 50).Draw(t, "draws")

		start := decimal.NewFromFloat(price).Round(Precision(class, decimal.NewFromFloat(price)))
		if start.LessThan(PriceFloor) {
			start = PriceFloor
		}
		s, err := NewSimulator([]Listing{{Symbol: "X", Class: class, Price: start}}, &fixedRand{draws: draws})
		if err != nil {
			t.Fatalf("new simulator: %v", err)
		}

		for range draws {
			before, _ := s.Instrument("X")
			s.AdvancePrices()
			after, _ := s.Instrument("X")
			if after.Price.LessThan(PriceFloor) {
				t.Fatalf("price %s below floor", after.Price)
			}
			limit := before.Price.Mul(d("0.021")).Add(d("0.01"))
			if after.Change.Abs().GreaterThan(limit) {
				t.Fatalf("step %s from %s exceeds bound", after.Change, before.Price)
			}
		}
	})
}

func TestPricesSnapshot(t *testing.T) {
	t.Parallel()

	s, err := NewSimulator(DefaultCatalog(), rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	snap := s.Prices()
	s.AdvancePrices()
	assert.Len(t, snap, 42)
	assertDecimal(t, "165", snap["AAPL"])
}
