package strategy

import (
	"github.com/rustyeddy/datatrader/event"
)

// SentimentThreshold buys a ticker when its sentiment score reaches
// BuyThreshold and closes the long when the score drops to SellThreshold.
// Categorical sentiment is ignored.
type SentimentThreshold struct {
	BuyThreshold  float64
	SellThreshold float64
	Quantity      int64

	queue    event.Sink
	invested map[string]bool
}

func NewSentimentThreshold(tickers []string, q event.Sink, buy, sell float64, qty int64) *SentimentThreshold {
	inv := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		inv[t] = false
	}
	return &SentimentThreshold{
		BuyThreshold:  buy,
		SellThreshold: sell,
		Quantity:      qty,
		queue:         q,
		invested:      inv,
	}
}

func (s *SentimentThreshold) CalculateSignals(e event.Event) {
	ev, ok := e.(event.Sentiment)
	if !ok || !ev.IsNumeric() {
		return
	}
	invested, tracked := s.invested[ev.Ticker]
	if !tracked {
		return
	}
	if !invested && ev.Score >= s.BuyThreshold {
		s.queue.Put(event.Signal{Ticker: ev.Ticker, Action: event.Bot, SuggestedQuantity: s.Quantity})
		invested = true
	}
	if invested && ev.Score <= s.SellThreshold {
		s.queue.Put(event.Signal{Ticker: ev.Ticker, Action: event.Sld, SuggestedQuantity: s.Quantity})
		invested = false
	}
	s.invested[ev.Ticker] = invested
}
