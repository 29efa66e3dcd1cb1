package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/papertrader/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func assertSameState(t *testing.T, want, got broker.State) {
	t.Helper()

	assert.True(t, want.InitialCash.Equal(got.InitialCash), "initial cash %s != %s", want.InitialCash, got.InitialCash)
	assert.True(t, want.Cash.Equal(got.Cash), "cash %s != %s", want.Cash, got.Cash)

	require.Len(t, got.Positions, len(want.Positions))
	for i, p := range want.Positions {
		g := got.Positions[i]
		assert.Equal(t, p.Symbol, g.Symbol)
		assert.Equal(t, p.Name, g.Name)
		assert.Equal(t, p.Class, g.Class)
		assert.True(t, p.Shares.Equal(g.Shares), p.Symbol)
		assert.True(t, p.AvgPrice.Equal(g.AvgPrice), p.Symbol)
		assert.True(t, p.CurrentPrice.Equal(g.CurrentPrice), p.Symbol)
	}

	require.Len(t, got.Transactions, len(want.Transactions))
	for i, tx := range want.Transactions {
		g := got.Transactions[i]
		assert.Equal(t, tx.ID, g.ID)
		assert.Equal(t, tx.Symbol, g.Symbol)
		assert.Equal(t, tx.Side, g.Side)
		assert.True(t, tx.Quantity.Equal(g.Quantity))
		assert.True(t, tx.Price.Equal(g.Price))
		assert.True(t, tx.Time.Equal(g.Time), "time %v != %v", tx.Time, g.Time)
	}

	assert.Equal(t, want.Watchlist, got.Watchlist)
}

func TestStoresRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"file":   func(t *testing.T) Store { return NewFile(filepath.Join(t.TempDir(), "state.json")) },
		"sqlite": func(t *testing.T) Store {
			j, _ := newTestSQLite(t)
			t.Cleanup(func() { _ = j.Close() })
			return j
		},
	}

	for name, mk := range stores {
		mk := mk
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := mk(t)

			_, err := s.Load(ctx)
			assert.ErrorIs(t, err, ErrNoState)

			want := sampleState()
			require.NoError(t, s.Save(ctx, want))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assertSameState(t, want, got)

			// A second save replaces, not appends.
			want.Positions = want.Positions[:1]
			want.Transactions = want.Transactions[:1]
			want.Watchlist = []string{"BTC"}
			want.Cash = d("1.23")
			require.NoError(t, s.Save(ctx, want))
			got, err = s.Load(ctx)
			require.NoError(t, err)
			assertSameState(t, want, got)
		})
	}
}

func TestSQLiteStatePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, path := newTestSQLite(t)
	require.NoError(t, j.Save(ctx, sampleState()))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j2.Close() })

	got, err := j2.Load(ctx)
	require.NoError(t, err)
	assertSameState(t, sampleState(), got)
}

func TestSQLiteJournal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	st := sampleState()
	// Record oldest first, the way an engine would.
	for i := len(st.Transactions) - 1; i >= 0; i-- {
		require.NoError(t, j.RecordTransaction(st.Transactions[i]))
	}

	all, err := j.ListTrades(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "T2", all[0].ID)
	assert.Equal(t, "T1", all[1].ID)

	one, err := j.ListTrades(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "T2", one[0].ID)

	t0 := st.Transactions[1].Time
	for i := 0; i < 3; i++ {
		require.NoError(t, j.RecordEquity(EquitySnapshot{
			Time:           t0.Add(time.Duration(i) * time.Minute),
			Cash:           d("96900"),
			PositionsValue: d("3200"),
			PortfolioValue: d("100100"),
		}))
	}
	eq, err := j.ListEquityBetween(ctx, t0, t0.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, eq, 2)
	assert.True(t, eq[0].Time.Equal(t0))
	assert.True(t, d("100100").Equal(eq[1].PortfolioValue))
}

func TestFileStoreBadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFile(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoState)
}

func TestMemoryJournal(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	st := sampleState()
	require.NoError(t, m.RecordTransaction(st.Transactions[0]))
	require.NoError(t, m.RecordEquity(EquitySnapshot{Cash: d("1")}))
	require.NoError(t, m.Save(context.Background(), st))

	assert.Len(t, m.Transactions(), 1)
	assert.Len(t, m.Equity(), 1)
	assert.Equal(t, 1, m.Saves())
	assert.NoError(t, m.Close())
}
