package portfolio

import "github.com/rustyeddy/datatrader/event"

// SuggestedOrder is a trade intent before sizing and risk checks.
// Action may still be event.Exit until a sizer resolves it.
type SuggestedOrder struct {
	Ticker   string
	Action   event.Action
	Quantity int64
}

// SuggestedOrderFrom takes the signal's suggested quantity, or zero.
func SuggestedOrderFrom(sig event.Signal) SuggestedOrder {
	return SuggestedOrder{
		Ticker:   sig.Ticker,
		Action:   sig.Action,
		Quantity: sig.SuggestedQuantity,
	}
}

// Order converts a finished suggestion into an order event.
func (o SuggestedOrder) Order() event.Order {
	return event.Order{Ticker: o.Ticker, Action: o.Action, Quantity: o.Quantity}
}
