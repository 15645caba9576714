package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/datatrader/event"
)

const googTicks = `Ticker,Time,Bid,Ask
GOOG,01.02.2016 00:00:01.358,683.56000,683.58000
GOOG,01.02.2016 00:00:02.544,683.55998,683.58002
`

const amznTicks = `Ticker,Time,Bid,Ask
AMZN,01.02.2016 00:00:01.562,502.10001,502.11999
AMZN,01.02.2016 00:00:03.898,502.08001,502.10001
`

const msftTicks = `Ticker,Time,Bid,Ask
MSFT,01.02.2016 00:00:01.578,50.14999,50.17001
`

func tickDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "GOOG.csv", googTicks)
	writeFile(t, dir, "AMZN.csv", amznTicks)
	writeXZ(t, dir, "MSFT.csv.xz", msftTicks)
	return dir
}

func TestTickCSVHandlerStreamsInTimeOrder(t *testing.T) {
	t.Parallel()

	h := NewTickCSVHandler(tickDir(t), []string{"GOOG", "AMZN", "MSFT"})
	assert.True(t, h.IsTick())

	q := event.NewQueue()
	var order []string
	for h.Continue() {
		h.StreamNext(q)
		if e, ok := q.Get(); ok {
			order = append(order, e.(event.Tick).Ticker)
		}
	}
	assert.Equal(t, []string{"GOOG", "AMZN", "MSFT", "GOOG", "AMZN"}, order)

	bid, ask, err := h.BestBidAsk("AMZN")
	require.NoError(t, err)
	assert.Equal(t, px("502.08001"), bid)
	assert.Equal(t, px("502.10001"), ask)

	ts, err := h.LastTimestamp("GOOG")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2016, 2, 1, 0, 0, 2, 544_000_000, time.UTC)))
}

func TestTickCSVHandlerSeedsFirstRow(t *testing.T) {
	t.Parallel()

	h := NewTickCSVHandler(tickDir(t), []string{"MSFT"})
	bid, ask, err := h.BestBidAsk("MSFT")
	require.NoError(t, err)
	assert.Equal(t, px("50.14999"), bid)
	assert.Equal(t, px("50.17001"), ask)
}

func TestTickCSVHandlerSubscribe(t *testing.T) {
	t.Parallel()

	h := NewTickCSVHandler(tickDir(t), nil)

	require.NoError(t, h.SubscribeTicker("GOOG"))
	assert.ErrorIs(t, h.SubscribeTicker("GOOG"), ErrAlreadySubscribed)
	assert.ErrorIs(t, h.SubscribeTicker("AAPL"), ErrNoData)
	assert.Equal(t, []string{"GOOG"}, h.Tickers())

	h.UnsubscribeTicker("GOOG")
	assert.False(t, h.Has("GOOG"))

	q := event.NewQueue()
	h.StreamNext(q)
	assert.False(t, h.Continue())
	assert.Equal(t, 0, q.Len())
}

func TestTickCSVHandlerSkipsUnsubscribed(t *testing.T) {
	t.Parallel()

	h := NewTickCSVHandler(tickDir(t), []string{"GOOG", "AMZN"})
	q := event.NewQueue()
	h.StreamNext(q)
	h.UnsubscribeTicker("AMZN")

	for h.Continue() {
		h.StreamNext(q)
	}
	require.Equal(t, 2, q.Len())
	for q.Len() > 0 {
		e, _ := q.Get()
		assert.Equal(t, "GOOG", e.(event.Tick).Ticker)
	}
}

func TestTickCSVHandlerRange(t *testing.T) {
	t.Parallel()

	from := time.Date(2016, 2, 1, 0, 0, 2, 0, time.UTC)
	h := NewTickCSVHandler(tickDir(t), []string{"GOOG", "AMZN"}, WithRange(from, time.Time{}))

	q := event.NewQueue()
	for h.Continue() {
		h.StreamNext(q)
	}
	assert.Equal(t, 2, q.Len())
}
