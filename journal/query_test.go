package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	st := sampleState()
	for _, tx := range st.Transactions {
		require.NoError(t, j.RecordTransaction(tx))
	}

	got, err := j.GetTrade(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.True(t, d("150").Equal(got.Price))
	assert.True(t, st.Transactions[1].Time.Equal(got.Time))

	_, err = j.GetTrade(ctx, "nope")
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestListTradesBetween(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	st := sampleState()
	for _, tx := range st.Transactions {
		require.NoError(t, j.RecordTransaction(tx))
	}
	late := st.Transactions[0]
	late.ID = "T3"
	late.Time = late.Time.Add(48 * time.Hour)
	require.NoError(t, j.RecordTransaction(late))

	start, end := DayBounds(st.Transactions[1].Time, time.UTC)
	got, err := j.ListTradesBetween(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].ID)
	assert.Equal(t, "T2", got[1].ID)

	got, err = j.ListTradesBetween(ctx, end, end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDayBounds(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("EST", -5*3600)
	start, end := DayBounds(time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC), loc)

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, loc), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
