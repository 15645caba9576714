package portfolio

import (
	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

// PositionSizer sets the quantity of a suggested order, possibly to zero.
type PositionSizer interface {
	SizeOrder(p *Portfolio, o SuggestedOrder) SuggestedOrder
}

// RiskManager turns a sized order into zero or more orders. An empty
// result vetoes the trade.
type RiskManager interface {
	RefineOrders(p *Portfolio, o SuggestedOrder) []event.Order
}

// Handler drives the signal -> sizer -> risk -> order pipeline and
// books fills. It holds no accounting logic of its own.
type Handler struct {
	Portfolio *Portfolio

	queue event.Sink
	sizer PositionSizer
	risk  RiskManager
	log   zerolog.Logger
}

func NewHandler(cash market.Price, queue event.Sink, prices market.PriceSource, sizer PositionSizer, risk RiskManager, opts ...Option) *Handler {
	pf := New(prices, cash, opts...)
	return &Handler{
		Portfolio: pf,
		queue:     queue,
		sizer:     sizer,
		risk:      risk,
		log:       pf.log,
	}
}

// OnSignal sizes and risk-checks a signal and enqueues the resulting
// orders. Orders with no quantity or an unresolved action are dropped.
// It returns the orders it enqueued.
func (h *Handler) OnSignal(sig event.Signal) []event.Order {
	suggested := SuggestedOrderFrom(sig)
	sized := h.sizer.SizeOrder(h.Portfolio, suggested)
	orders := h.risk.RefineOrders(h.Portfolio, sized)

	out := make([]event.Order, 0, len(orders))
	for _, o := range orders {
		if o.Quantity <= 0 || !o.Action.IsTrade() {
			h.log.Debug().Str("ticker", o.Ticker).Str("action", o.Action.String()).
				Int64("quantity", o.Quantity).Msg("dropping order")
			continue
		}
		h.queue.Put(o)
		out = append(out, o)
	}
	return out
}

// OnFill books the fill in the portfolio.
func (h *Handler) OnFill(f event.Fill) error {
	return h.Portfolio.TransactPosition(f.Action, f.Ticker, f.Quantity, f.Price, f.Commission)
}

// UpdatePortfolioValue revalues the portfolio at current prices.
func (h *Handler) UpdatePortfolioValue() {
	h.Portfolio.Update()
}
