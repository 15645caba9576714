package strategy

import (
	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/indicators"
)

// Average selects the moving average used by MovingAverageCross.
type Average int

const (
	SMA Average = iota
	EMA
)

// MovingAverageCross goes long when the short average of the adjusted
// close rises above the long average and sells when it falls back
// below. Signals start once more than LongWindow bars have been seen.
type MovingAverageCross struct {
	Ticker      string
	ShortWindow int
	LongWindow  int
	Quantity    int64

	queue    event.Sink
	short    indicators.Indicator
	long     indicators.Indicator
	bars     int
	invested bool
}

func NewMovingAverageCross(ticker string, q event.Sink, short, long int, qty int64, avg Average) *MovingAverageCross {
	s := &MovingAverageCross{
		Ticker:      ticker,
		ShortWindow: short,
		LongWindow:  long,
		Quantity:    qty,
		queue:       q,
	}
	switch avg {
	case EMA:
		s.short = indicators.NewEMA(short, indicators.AdjClose)
		s.long = indicators.NewEMA(long, indicators.AdjClose)
	default:
		s.short = indicators.NewMA(short, indicators.AdjClose)
		s.long = indicators.NewMA(long, indicators.AdjClose)
	}
	return s
}

func (s *MovingAverageCross) CalculateSignals(e event.Event) {
	b, ok := e.(event.Bar)
	if !ok || b.Ticker != s.Ticker {
		return
	}
	s.short.Update(b)
	s.long.Update(b)

	if s.bars > s.LongWindow {
		shortAvg, longAvg := s.short.Value(), s.long.Value()
		switch {
		case shortAvg > longAvg && !s.invested:
			s.queue.Put(event.Signal{Ticker: s.Ticker, Action: event.Bot, SuggestedQuantity: s.Quantity})
			s.invested = true
		case shortAvg < longAvg && s.invested:
			s.queue.Put(event.Signal{Ticker: s.Ticker, Action: event.Sld, SuggestedQuantity: s.Quantity})
			s.invested = false
		}
	}
	s.bars++
}
