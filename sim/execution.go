// Package sim simulates order execution against the last known prices.
package sim

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

// DefaultExchange is stamped on simulated fills.
const DefaultExchange = "ARCA"

var ErrNotTradable = errors.New("order action is not tradable")

// Compliance receives every fill. It must not affect the outcome.
type Compliance interface {
	RecordTrade(event.Fill)
}

// ExecutionHandler turns each order into one fill with no latency,
// slippage or partial fills. Ticks fill buys at the ask and sells at the
// bid; bars fill at the last close.
type ExecutionHandler struct {
	queue      event.Sink
	prices     market.PriceSource
	compliance Compliance
	exchange   string
	commission CommissionFunc
	log        zerolog.Logger
}

type Option func(*ExecutionHandler)

func WithCompliance(c Compliance) Option {
	return func(h *ExecutionHandler) { h.compliance = c }
}

func WithCommission(f CommissionFunc) Option {
	return func(h *ExecutionHandler) { h.commission = f }
}

func WithExchange(name string) Option {
	return func(h *ExecutionHandler) { h.exchange = name }
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *ExecutionHandler) { h.log = l }
}

func NewExecutionHandler(queue event.Sink, prices market.PriceSource, opts ...Option) *ExecutionHandler {
	h := &ExecutionHandler{
		queue:      queue,
		prices:     prices,
		exchange:   DefaultExchange,
		commission: IBCommission,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ExecuteOrder enqueues the fill for o. An order for a ticker the price
// source does not know is skipped with a warning.
func (h *ExecutionHandler) ExecuteOrder(o event.Order) error {
	if !o.Action.IsTrade() {
		return fmt.Errorf("execute %s: %w: %s", o.Ticker, ErrNotTradable, o.Action)
	}

	ts, err := h.prices.LastTimestamp(o.Ticker)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", o.Ticker).Msg("no timestamp for order, skipping")
		return nil
	}

	var price market.Price
	if h.prices.IsTick() {
		bid, ask, err := h.prices.BestBidAsk(o.Ticker)
		if err != nil {
			h.log.Warn().Err(err).Str("ticker", o.Ticker).Msg("no bid/ask for order, skipping")
			return nil
		}
		price = bid
		if o.Action == event.Bot {
			price = ask
		}
	} else {
		price, err = h.prices.LastClose(o.Ticker)
		if err != nil {
			h.log.Warn().Err(err).Str("ticker", o.Ticker).Msg("no close for order, skipping")
			return nil
		}
	}

	fill := event.Fill{
		Timestamp:  ts,
		Ticker:     o.Ticker,
		Action:     o.Action,
		Quantity:   o.Quantity,
		Exchange:   h.exchange,
		Price:      price,
		Commission: h.commission(o.Quantity, price),
	}
	h.queue.Put(fill)

	h.log.Debug().Str("fill", fill.String()).Msg("order filled")

	if h.compliance != nil {
		h.compliance.RecordTrade(fill)
	}
	return nil
}
