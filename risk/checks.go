package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
	"github.com/rustyeddy/datatrader/portfolio"
)

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	Notional    market.Price
	NotionalPct float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Codes returns the violation codes in the order they were found.
func (d Decision) Codes() []string {
	out := make([]string, 0, len(d.Violations))
	for _, v := range d.Violations {
		out = append(out, v.Code)
	}
	return out
}

// Evaluate checks a sized order against p and the current portfolio.
func Evaluate(p Policy, o portfolio.SuggestedOrder, pf *portfolio.Portfolio) Decision {
	d := Decision{Allowed: true}

	// Basic sanity
	if !o.Action.IsTrade() {
		d.add("NO_ACTION", fmt.Sprintf("action %s is not tradable", o.Action))
		return d
	}
	if o.Quantity <= 0 {
		d.add("NO_QUANTITY", "quantity must be positive")
		return d
	}

	if p.MaxOrderQuantity > 0 && o.Quantity > p.MaxOrderQuantity {
		d.add("MAX_ORDER_QUANTITY",
			fmt.Sprintf("quantity %d exceeds max %d", o.Quantity, p.MaxOrderQuantity))
	}

	pos, open := pf.Get(o.Ticker)

	// Exposure constraints
	if !open && p.MaxOpenPositions > 0 && len(pf.Positions) >= p.MaxOpenPositions {
		d.add("MAX_OPEN_POSITIONS",
			fmt.Sprintf("open positions %d >= max %d", len(pf.Positions), p.MaxOpenPositions))
	}

	if !p.AllowShort && o.Action == event.Sld {
		var held int64
		if open {
			held = pos.Quantity
		}
		if held-o.Quantity < 0 {
			d.add("SHORT_NOT_ALLOWED",
				fmt.Sprintf("selling %d with %d held would go short", o.Quantity, held))
		}
	}

	// Notional cap, priced on the side the order would cross
	if price, ok := orderPrice(pf.Prices(), o); ok {
		d.Notional = o.Quantity * price
		if pf.Equity > 0 {
			d.NotionalPct = decimal.NewFromInt(d.Notional).
				Div(decimal.NewFromInt(pf.Equity)).InexactFloat64()
		}
		if p.MaxNotionalPct > 0 && d.NotionalPct > p.MaxNotionalPct {
			d.add("MAX_NOTIONAL_PCT",
				fmt.Sprintf("notional %.2f%% of equity exceeds max %.2f%%",
					100*d.NotionalPct, 100*p.MaxNotionalPct))
		}
	}

	return d
}

func orderPrice(src market.PriceSource, o portfolio.SuggestedOrder) (market.Price, bool) {
	bid, ask, err := market.Quote(src, o.Ticker)
	if err != nil {
		return 0, false
	}
	if o.Action == event.Bot {
		return ask, ask > 0
	}
	return bid, bid > 0
}
