package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
	"github.com/rustyeddy/datatrader/portfolio"
)

var px = market.MustParse

func barPortfolio(t *testing.T, cash string) (*portfolio.Portfolio, *market.PriceStore) {
	t.Helper()
	prices := market.NewPriceStore(false)
	for ticker, adj := range map[string]string{"AAA": "50.00", "BBB": "100.00", "CCC": "1.00"} {
		prices.SetBar(ticker, time.Date(2016, 1, 29, 0, 0, 0, 0, time.UTC), px(adj), px(adj))
	}
	return portfolio.New(prices, px(cash)), prices
}

func TestRebalanceSizerWeights(t *testing.T) {
	t.Parallel()

	pf, _ := barPortfolio(t, "10000.00")
	sizer := NewRebalanceSizer(map[string]float64{"AAA": 0.3, "BBB": 0.7})

	a := sizer.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "AAA", Action: event.Bot})
	b := sizer.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "BBB", Action: event.Bot})
	c := sizer.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "CCC", Action: event.Bot})

	assert.Equal(t, event.Bot, a.Action)
	assert.Equal(t, event.Bot, b.Action)
	assert.Equal(t, int64(60), a.Quantity)
	assert.Equal(t, int64(70), b.Quantity)
	assert.Equal(t, int64(0), c.Quantity, "no weight, no order")
}

func TestRebalanceSizerLiquidates(t *testing.T) {
	t.Parallel()

	pf, _ := barPortfolio(t, "10000.00")
	require.NoError(t, pf.AddPosition(event.Bot, "AAA", 100, px("60.00"), 0))
	require.NoError(t, pf.AddPosition(event.Sld, "BBB", 100, px("60.00"), 0))
	sizer := NewRebalanceSizer(map[string]float64{"AAA": 0.3, "BBB": 0.7})

	a := sizer.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "AAA", Action: event.Exit})
	b := sizer.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "BBB", Action: event.Exit})
	c := sizer.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "CCC", Action: event.Exit})

	assert.Equal(t, portfolio.SuggestedOrder{Ticker: "AAA", Action: event.Sld, Quantity: 100}, a)
	assert.Equal(t, portfolio.SuggestedOrder{Ticker: "BBB", Action: event.Bot, Quantity: 100}, b)
	assert.Equal(t, int64(0), c.Quantity, "nothing held, nothing to exit")
}

func TestRebalanceSizerTickSourceUsesMid(t *testing.T) {
	t.Parallel()

	prices := market.NewPriceStore(true)
	prices.SetTick("MSFT", time.Time{}, px("49.00"), px("51.00"))
	pf := portfolio.New(prices, px("10000.00"))

	o := NewRebalanceSizer(map[string]float64{"MSFT": 0.5}).
		SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "MSFT", Action: event.Bot})
	assert.Equal(t, int64(100), o.Quantity)
}

func TestFixedAndNaiveSizers(t *testing.T) {
	t.Parallel()

	pf, _ := barPortfolio(t, "10000.00")
	in := portfolio.SuggestedOrder{Ticker: "AAA", Action: event.Bot, Quantity: 7}

	assert.Equal(t, int64(100), NewFixedSizer(0).SizeOrder(pf, in).Quantity)
	assert.Equal(t, int64(25), NewFixedSizer(25).SizeOrder(pf, in).Quantity)
	assert.Equal(t, in, NaiveSizer{}.SizeOrder(pf, in))
}

func TestEquityPctSizer(t *testing.T) {
	t.Parallel()

	pf, _ := barPortfolio(t, "10000.00")
	s := EquityPctSizer{Pct: 0.1}

	o := s.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "BBB", Action: event.Bot})
	assert.Equal(t, int64(10), o.Quantity)

	o = s.SizeOrder(pf, portfolio.SuggestedOrder{Ticker: "NOPE", Action: event.Bot})
	assert.Equal(t, int64(0), o.Quantity)
}
