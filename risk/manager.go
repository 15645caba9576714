package risk

import (
	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/portfolio"
)

// ExampleManager passes every sized order through unchanged.
type ExampleManager struct{}

func (ExampleManager) RefineOrders(_ *portfolio.Portfolio, o portfolio.SuggestedOrder) []event.Order {
	return []event.Order{o.Order()}
}

// LimitsManager vetoes orders that break its Policy.
type LimitsManager struct {
	Policy Policy

	// OnReject, when set, is called with every vetoed order.
	OnReject func(portfolio.SuggestedOrder, Decision)

	log zerolog.Logger
}

func NewLimitsManager(p Policy, log zerolog.Logger) *LimitsManager {
	return &LimitsManager{Policy: p, log: log}
}

func (m *LimitsManager) RefineOrders(pf *portfolio.Portfolio, o portfolio.SuggestedOrder) []event.Order {
	d := Evaluate(m.Policy, o, pf)
	if d.Allowed {
		return []event.Order{o.Order()}
	}

	m.log.Info().Str("ticker", o.Ticker).Str("action", o.Action.String()).
		Int64("quantity", o.Quantity).Strs("violations", d.Codes()).Msg("order vetoed")

	if m.OnReject != nil {
		m.OnReject(o, d)
	}
	return nil
}
