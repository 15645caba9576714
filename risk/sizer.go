package risk

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
	"github.com/rustyeddy/datatrader/portfolio"
)

// DefaultQuantity is what FixedSizer uses when none is given.
const DefaultQuantity int64 = 100

// FixedSizer sizes every order to the same quantity.
type FixedSizer struct {
	Quantity int64
}

func NewFixedSizer(qty int64) FixedSizer {
	if qty <= 0 {
		qty = DefaultQuantity
	}
	return FixedSizer{Quantity: qty}
}

func (s FixedSizer) SizeOrder(_ *portfolio.Portfolio, o portfolio.SuggestedOrder) portfolio.SuggestedOrder {
	o.Quantity = s.Quantity
	return o
}

// NaiveSizer keeps whatever quantity the strategy suggested.
type NaiveSizer struct{}

func (NaiveSizer) SizeOrder(_ *portfolio.Portfolio, o portfolio.SuggestedOrder) portfolio.SuggestedOrder {
	return o
}

// RebalanceSizer liquidates on EXIT and otherwise sizes each ticker to
// a fixed fraction of current equity:
//
//	quantity = floor(weight * equity / adjusted close)
//
// Tickers without a weight size to zero.
type RebalanceSizer struct {
	Weights map[string]float64
}

func NewRebalanceSizer(weights map[string]float64) RebalanceSizer {
	return RebalanceSizer{Weights: weights}
}

func (s RebalanceSizer) SizeOrder(pf *portfolio.Portfolio, o portfolio.SuggestedOrder) portfolio.SuggestedOrder {
	if o.Action == event.Exit {
		return liquidate(pf, o)
	}

	weight, ok := s.Weights[o.Ticker]
	if !ok || weight <= 0 {
		o.Quantity = 0
		return o
	}

	price := sizingPrice(pf.Prices(), o.Ticker)
	if price <= 0 {
		o.Quantity = 0
		return o
	}

	equity := market.ToDisplay(pf.Equity, market.DisplayPlaces)
	dollars := decimal.NewFromFloat(weight).Mul(equity)
	o.Quantity = dollars.Div(market.ToDisplay(price, market.DisplayPlaces)).Floor().IntPart()
	return o
}

// liquidate turns an EXIT into the trade that flattens the position.
// With nothing held the order sizes to zero and is dropped.
func liquidate(pf *portfolio.Portfolio, o portfolio.SuggestedOrder) portfolio.SuggestedOrder {
	pos, ok := pf.Get(o.Ticker)
	if !ok || pos.Quantity == 0 {
		o.Quantity = 0
		return o
	}
	if pos.Quantity > 0 {
		o.Action = event.Sld
	} else {
		o.Action = event.Bot
	}
	o.Quantity = market.Abs(pos.Quantity)
	return o
}

// sizingPrice prefers the adjusted close and falls back to the mid for
// tick sources.
func sizingPrice(src market.PriceSource, ticker string) market.Price {
	if p, err := src.LastAdjClose(ticker); err == nil && p > 0 {
		return p
	}
	bid, ask, err := market.Quote(src, ticker)
	if err != nil {
		return 0
	}
	return market.Mid(bid, ask)
}

// EquityPctSizer risks a fixed fraction of equity per order:
//
//	quantity = floor(equity * pct / price)
//
// EXIT signals liquidate like RebalanceSizer.
type EquityPctSizer struct {
	Pct float64
}

func (s EquityPctSizer) SizeOrder(pf *portfolio.Portfolio, o portfolio.SuggestedOrder) portfolio.SuggestedOrder {
	if o.Action == event.Exit {
		return liquidate(pf, o)
	}
	price := sizingPrice(pf.Prices(), o.Ticker)
	if price <= 0 || s.Pct <= 0 {
		o.Quantity = 0
		return o
	}
	budget := decimal.NewFromInt(pf.Equity).Mul(decimal.NewFromFloat(s.Pct))
	o.Quantity = budget.Div(decimal.NewFromInt(price)).Floor().IntPart()
	return o
}
