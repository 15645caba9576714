package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleFill() event.Fill {
	return event.Fill{
		Timestamp:  time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC),
		Ticker:     "MSFT",
		Action:     event.Bot,
		Quantity:   100,
		Exchange:   "ARCA",
		Price:      market.MustParse("50.255"),
		Commission: market.MustParse("1.00"),
	}
}

func TestTradeLogName(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 9, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "tradelog_2024-03-09.csv", TradeLogName(day))
}

func TestCSVJournalRecordFill(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewTradeLog(dir, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, j.RecordFill(NewFillRecord(sampleFill())))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: time.Now()}))
	require.NoError(t, j.Close())

	rows := readCSV(t, filepath.Join(dir, "tradelog_2024-03-09.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, TradeLogHeader, rows[0])
	assert.Equal(t, []string{"2016-02-01T00:00:00Z", "MSFT", "BOT", "100", "ARCA", "50.26", "1.00"}, rows[1])
}

func TestCSVJournalTruncatesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\nrows\n"), 0o644))

	j, err := NewCSV(path, "")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, TradeLogHeader, rows[0])
}

func TestCSVJournalRecordEquity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tp := filepath.Join(dir, "trades.csv")
	ep := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tp, ep)
	require.NoError(t, err)

	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time:          time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
		Cash:          market.MustParse("494974.00"),
		Equity:        market.MustParse("500003.50"),
		UnrealisedPnL: market.MustParse("3.50"),
		OpenPositions: 1,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, ep)
	require.Len(t, rows, 2)
	assert.Equal(t, equityHeader, rows[0])
	assert.Equal(t, []string{"2024-02-03T04:05:06Z", "494974.00", "500003.50", "0.00", "3.50", "1"}, rows[1])
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "trades.csv"), "")
	assert.Error(t, err)
}

func TestCSVJournalCloseFlushesBoth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	trades := filepath.Join(dir, "trades.csv")
	equity := filepath.Join(dir, "equity.csv")
	j, err := NewCSV(trades, equity)
	require.NoError(t, err)

	require.NoError(t, j.Close())

	for _, name := range []string{trades, equity} {
		b, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.NotEmpty(t, b, name)
	}

	// both files were already closed, so a second close reports both
	err = j.Close()
	assert.ErrorIs(t, err, os.ErrClosed)
}
