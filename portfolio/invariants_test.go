package portfolio

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

func randomTrade(r *rand.Rand) (event.Action, int64, market.Price, market.Price) {
	action := event.Bot
	if r.Intn(2) == 0 {
		action = event.Sld
	}
	qty := int64(1 + r.Intn(300))
	price := market.Price(50*market.Multiplier + r.Int63n(10*market.Multiplier))
	comm := market.Price(r.Int63n(2 * market.Multiplier))
	return action, qty, price, comm
}

func TestPositionInvariantsHold(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		a, q, p, c := randomTrade(r)
		pos, err := NewPosition(a, "T", q, p, c, p, p)
		require.NoError(t, err)

		for i := 0; i < 30; i++ {
			a, q, p, c = randomTrade(r)
			require.NoError(t, pos.Transact(a, q, p, c))

			require.Equal(t, pos.Buys-pos.Sells, pos.Quantity)
			require.Equal(t, pos.Net, pos.Quantity)
			require.Equal(t, pos.Quantity*pos.AvgPrice, pos.CostBasis)
			require.Equal(t, pos.TotalSld-pos.TotalBot-pos.TotalCommission, pos.NetInclComm)

			bid := p - market.Price(r.Int63n(market.Multiplier))
			ask := p + market.Price(r.Int63n(market.Multiplier))
			pos.UpdateMarketValue(bid, ask)
			unrealised, mv := pos.UnrealisedPnL, pos.MarketValue
			pos.UpdateMarketValue(bid, ask)
			require.Equal(t, unrealised, pos.UnrealisedPnL, "revaluation is idempotent")
			require.Equal(t, mv, pos.MarketValue)
			require.Equal(t, pos.Quantity*market.Mid(bid, ask), pos.MarketValue)
		}
	}
}

func TestPortfolioClosuresAndEquity(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7))
	prices := market.NewPriceStore(true)
	pf := New(prices, 1_000_000*market.Multiplier)

	tickers := []string{"AAA", "BBB", "CCC"}
	net := map[string]int64{}
	closures := 0

	for i := 0; i < 2000; i++ {
		ticker := tickers[r.Intn(len(tickers))]
		a, q, p, c := randomTrade(r)
		// bias toward flattening so positions close regularly
		if n := net[ticker]; n != 0 && r.Intn(3) == 0 {
			q = market.Abs(n)
			a = event.Sld
			if n < 0 {
				a = event.Bot
			}
		}
		prices.SetTick(ticker, time.Time{}, p-1000, p+1000)

		_, wasOpen := pf.Get(ticker)
		require.NoError(t, pf.TransactPosition(a, ticker, q, p, c))
		if a == event.Bot {
			net[ticker] += q
		} else {
			net[ticker] -= q
		}
		if wasOpen && net[ticker] == 0 {
			closures++
		}

		var realised market.Price
		for _, cp := range pf.ClosedPositions {
			realised += cp.RealisedPnL
		}
		require.Len(t, pf.ClosedPositions, closures)
		require.Equal(t, realised, pf.RealisedPnL)

		want := pf.InitialCash + pf.RealisedPnL
		for _, pos := range pf.Positions {
			require.NotZero(t, pos.Quantity)
			require.Equal(t, net[pos.Ticker], pos.Quantity)
			want += pos.MarketValue - pos.CostBasis + pos.RealisedPnL
		}
		require.Equal(t, want, pf.Equity)
	}
	require.Positive(t, closures)
}
