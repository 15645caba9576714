package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

func TestFormatFillOrg(t *testing.T) {
	t.Parallel()

	rec := FillRecord{
		ID:         "01HQ3K5Z8ABCDEFGHJKMNPQRST",
		Timestamp:  time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC),
		Ticker:     "XOM",
		Action:     event.Sld,
		Quantity:   175,
		Exchange:   "ARCA",
		Price:      market.MustParse("74.78"),
		Commission: market.MustParse("1.00"),
	}

	result := FormatFillOrg(rec)

	assert.Contains(t, result, "** Fill: SLD XOM 175 (01HQ3K5Z)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HQ3K5Z8ABCDEFGHJKMNPQRST")
	assert.Contains(t, result, ":PRICE: 74.78")
	assert.Contains(t, result, ":COMMISSION: 1.00")
	assert.Contains(t, result, ":TIMESTAMP: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Thesis")
	assert.Contains(t, result, "*** Review")
}

func TestFormatFillOrgShortID(t *testing.T) {
	t.Parallel()

	result := FormatFillOrg(FillRecord{ID: "short", Ticker: "PG", Action: event.Bot})
	assert.Contains(t, result, "(short)")
}

func TestFormatFillsOrg(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatFillsOrg(nil))

	out := FormatFillsOrg([]FillRecord{
		{ID: "a", Ticker: "XOM", Action: event.Bot},
		{ID: "b", Ticker: "PG", Action: event.Sld},
	})
	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Contains(t, out, "\n\n\n** Fill: SLD PG")
}

func TestRunReportOrg(t *testing.T) {
	t.Parallel()

	r := RunReport{
		RunID:       "run-1",
		Created:     time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC),
		Title:       "MSFT crossover",
		Type:        "backtest",
		Strategy:    "ma_cross",
		Tickers:     []string{"MSFT", "SPY"},
		Start:       time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		InitialCash: 500000,
		FinalEquity: 512345.678,
		NetPnL:      12345.678,
		ReturnPct:   2.469,
		Sharpe:      0.51234,
		MaxDDPct:    7.5,
		Fills:       12,
		Notes:       []string{"whipsaw in 2011"},
	}

	out, err := r.Org()
	require.NoError(t, err)
	assert.Contains(t, out, "* SESSION: MSFT crossover ma_cross")
	assert.Contains(t, out, ":TICKERS:     MSFT SPY")
	assert.Contains(t, out, ":START_DATE:  2010-01-01")
	assert.Contains(t, out, ":END_DATE:    (open)")
	assert.Contains(t, out, ":END_EQUITY:  512345.68")
	assert.Contains(t, out, ":SHARPE:      0.5123")
	assert.Contains(t, out, ":CREATED:     [2024-03-15 Fri 14:00]")
	assert.Contains(t, out, "- whipsaw in 2011")

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, r.WriteOrg(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(b))
}
