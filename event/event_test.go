package event

import (
	"testing"
	"time"

	"github.com/rustyeddy/datatrader/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ev   Event
		want Kind
		name string
	}{
		{Tick{}, KindTick, "TICK"},
		{Bar{}, KindBar, "BAR"},
		{Signal{}, KindSignal, "SIGNAL"},
		{Order{}, KindOrder, "ORDER"},
		{Fill{}, KindFill, "FILL"},
		{Sentiment{}, KindSentiment, "SENTIMENT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ev.Kind())
		assert.Equal(t, tt.name, tt.ev.Kind().String())
	}
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"BOT", Bot, false},
		{"sld", Sld, false},
		{" EXIT ", Exit, false},
		{"buy", Bot, false},
		{"HOLD", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, Bot.IsTrade())
	assert.True(t, Sld.IsTrade())
	assert.False(t, Exit.IsTrade())
	assert.Equal(t, Sld, Bot.Opposite())
	assert.Equal(t, Bot, Sld.Opposite())

	var a Action
	require.NoError(t, a.UnmarshalText([]byte("SLD")))
	assert.Equal(t, Sld, a)
	b, err := Exit.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "EXIT", string(b))
}

func TestPeriodReadable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1day", Bar{Period: DailyPeriod}.PeriodReadable())
	assert.Equal(t, "5min", Bar{Period: 300}.PeriodReadable())
	assert.Equal(t, "1wk", Bar{Period: 604800}.PeriodReadable())
	assert.Equal(t, "7sec", Bar{Period: 7}.PeriodReadable())
}

func TestStrings(t *testing.T) {
	t.Parallel()

	ts := time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)
	f := Fill{Timestamp: ts, Ticker: "MSFT", Action: Bot, Quantity: 100, Exchange: "ARCA",
		Price: market.MustParse("50.25"), Commission: market.MustParse("1.00")}
	assert.Equal(t, "Fill(2016-02-01T00:00:00Z, MSFT, BOT, 100 @ 50.25, comm 1.00, ARCA)", f.String())
	assert.Equal(t, "Order(MSFT, SLD, 5)", Order{Ticker: "MSFT", Action: Sld, Quantity: 5}.String())
	assert.Contains(t, Sentiment{Ticker: "AAPL", Label: "positive"}.String(), "positive")
	assert.True(t, Sentiment{Score: -3}.IsNumeric())
}

func TestTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)
	got, ok := Time(Bar{Time: ts})
	assert.True(t, ok)
	assert.True(t, got.Equal(ts))

	_, ok = Time(Signal{})
	assert.False(t, ok)
}
