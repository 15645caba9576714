// Package statistics tracks the equity curve of a session and derives
// Sharpe ratio and drawdown figures from it.
package statistics

import (
	"math"
	"time"

	"github.com/rustyeddy/datatrader/market"
	"github.com/rustyeddy/datatrader/portfolio"
)

// TradingDays annualises daily returns.
const TradingDays = 252

// Simple samples portfolio equity once per distinct timestamp.
type Simple struct {
	timestamps []time.Time
	equity     []float64
	returns    []float64
	hwm        []float64
	drawdowns  []float64
}

// NewSimple seeds the curve with the portfolio's starting equity.
func NewSimple(pf *portfolio.Portfolio) *Simple {
	eq := market.Display(pf.Equity)
	return &Simple{
		timestamps: []time.Time{{}},
		equity:     []float64{eq},
		returns:    []float64{0},
		hwm:        []float64{eq},
		drawdowns:  []float64{0},
	}
}

// Update records equity at ts unless ts repeats the previous sample.
func (s *Simple) Update(ts time.Time, pf *portfolio.Portfolio) {
	if ts.Equal(s.timestamps[len(s.timestamps)-1]) {
		return
	}
	cur := market.Display(pf.Equity)
	prev := s.equity[len(s.equity)-1]

	s.timestamps = append(s.timestamps, ts)
	s.equity = append(s.equity, cur)

	pct := 0.0
	if cur != 0 {
		pct = round((cur-prev)/cur*100, 4)
	}
	s.returns = append(s.returns, pct)

	hwm := math.Max(s.hwm[len(s.hwm)-1], cur)
	s.hwm = append(s.hwm, hwm)
	s.drawdowns = append(s.drawdowns, hwm-cur)
}

// Len is the number of samples including the seed.
func (s *Simple) Len() int {
	return len(s.equity)
}

// Results snapshots the curve. The seed sample is dated one day before
// the first real sample.
func (s *Simple) Results() Results {
	ts := append([]time.Time(nil), s.timestamps...)
	if len(ts) > 1 {
		ts[0] = ts[1].AddDate(0, 0, -1)
	}
	maxDD := 0.0
	for _, d := range s.drawdowns {
		maxDD = math.Max(maxDD, d)
	}
	return Results{
		Sharpe:         round(AnnualisedSharpe(s.returns, TradingDays), 4),
		MaxDrawdown:    maxDD,
		MaxDrawdownPct: s.maxDrawdownPct(),
		InitialEquity:  s.equity[0],
		FinalEquity:    s.equity[len(s.equity)-1],
		Timestamps:     ts,
		Equity:         append([]float64(nil), s.equity...),
		Returns:        append([]float64(nil), s.returns...),
		Drawdowns:      append([]float64(nil), s.drawdowns...),
	}
}

// maxDrawdownPct measures the worst drawdown against the equity peak
// that preceded it. It is 0 when equity never fell.
func (s *Simple) maxDrawdownPct() float64 {
	bottom := argmax(s.drawdowns)
	if bottom == 0 {
		return 0
	}
	top := argmax(s.equity[:bottom])
	if s.equity[top] == 0 {
		return 0
	}
	return round((s.equity[top]-s.equity[bottom])/s.equity[top]*100, 4)
}

// AnnualisedSharpe is sqrt(n) * mean / sample standard deviation. A flat
// return series yields 0.
func AnnualisedSharpe(returns []float64, n int) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	ss := 0.0
	for _, r := range returns {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	if std == 0 {
		return 0
	}
	return math.Sqrt(float64(n)) * mean / std
}

// argmax returns the first index of the largest value.
func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
