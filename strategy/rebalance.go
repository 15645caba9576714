package strategy

import (
	"time"

	"github.com/rustyeddy/datatrader/event"
)

// MonthlyRebalance liquidates and re-buys every ticker on the last
// calendar day of each month. It relies on a sizer that resolves EXIT to
// the open quantity and sizes the BOT by target weight.
type MonthlyRebalance struct {
	queue    event.Sink
	invested map[string]bool
}

func NewMonthlyRebalance(tickers []string, q event.Sink) *MonthlyRebalance {
	inv := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		inv[t] = false
	}
	return &MonthlyRebalance{queue: q, invested: inv}
}

// EndOfMonth reports whether t falls on the last day of its month.
func EndOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

func (s *MonthlyRebalance) CalculateSignals(e event.Event) {
	var (
		ticker string
		ts     time.Time
	)
	switch v := e.(type) {
	case event.Bar:
		ticker, ts = v.Ticker, v.Time
	case event.Tick:
		ticker, ts = v.Ticker, v.Time
	default:
		return
	}
	invested, tracked := s.invested[ticker]
	if !tracked || !EndOfMonth(ts) {
		return
	}
	if invested {
		s.queue.Put(event.Signal{Ticker: ticker, Action: event.Exit})
	}
	s.queue.Put(event.Signal{Ticker: ticker, Action: event.Bot})
	s.invested[ticker] = true
}
