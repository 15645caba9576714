package strategy

import "github.com/rustyeddy/datatrader/event"

// BuyAndHold goes long once on the first market event for its ticker and
// holds until the session ends.
type BuyAndHold struct {
	Ticker   string
	Quantity int64

	queue    event.Sink
	bars     int
	invested bool
}

func NewBuyAndHold(ticker string, qty int64, q event.Sink) *BuyAndHold {
	return &BuyAndHold{Ticker: ticker, Quantity: qty, queue: q}
}

func (s *BuyAndHold) CalculateSignals(e event.Event) {
	var ticker string
	switch v := e.(type) {
	case event.Bar:
		ticker = v.Ticker
	case event.Tick:
		ticker = v.Ticker
	default:
		return
	}
	if ticker != s.Ticker {
		return
	}
	if !s.invested && s.bars == 0 {
		s.queue.Put(event.Signal{Ticker: s.Ticker, Action: event.Bot, SuggestedQuantity: s.Quantity})
		s.invested = true
	}
	s.bars++
}
