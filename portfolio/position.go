package portfolio

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrUnknownAction   = errors.New("action must be BOT or SLD")
)

// Position is the ledger for one ticker. All money fields share the
// market.Price fixed-point scale and every division floors.
//
// Action is the side of the opening trade and never changes. Trades on
// that side blend AvgPrice; trades on the other side realise PnL against
// it. A single trade that carries the position through zero is treated
// entirely as a closing trade: PnL is realised on the full quantity and
// AvgPrice keeps the original side's value.
type Position struct {
	Action event.Action
	Ticker string

	// Quantity is the signed net share count, equal to Buys - Sells.
	Quantity int64
	Net      int64
	Buys     int64
	Sells    int64

	InitPrice      market.Price
	InitCommission market.Price

	AvgPrice  market.Price
	CostBasis market.Price

	AvgBot   market.Price
	AvgSld   market.Price
	TotalBot market.Price
	TotalSld market.Price

	TotalCommission market.Price
	NetTotal        market.Price
	NetInclComm     market.Price

	RealisedPnL   market.Price
	UnrealisedPnL market.Price
	MarketValue   market.Price
}

func checkTrade(action event.Action, qty int64) error {
	if !action.IsTrade() {
		return fmt.Errorf("%w: got %s", ErrUnknownAction, action)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	return nil
}

// NewPosition opens a position from its first fill and values it at
// bid/ask.
func NewPosition(action event.Action, ticker string, qty int64, price, commission, bid, ask market.Price) (*Position, error) {
	if err := checkTrade(action, qty); err != nil {
		return nil, fmt.Errorf("open %s: %w", ticker, err)
	}

	p := &Position{
		Action:          action,
		Ticker:          ticker,
		InitPrice:       price,
		InitCommission:  commission,
		TotalCommission: commission,
	}

	if action == event.Bot {
		p.Buys = qty
		p.AvgBot = price
		p.TotalBot = qty * price
		p.AvgPrice = market.FloorDiv(price*qty+commission, qty)
	} else {
		p.Sells = qty
		p.AvgSld = price
		p.TotalSld = qty * price
		p.AvgPrice = market.FloorDiv(price*qty-commission, qty)
	}

	p.Net = p.Buys - p.Sells
	p.Quantity = p.Net
	p.CostBasis = p.Quantity * p.AvgPrice
	p.NetTotal = p.TotalSld - p.TotalBot
	p.NetInclComm = p.NetTotal - commission

	p.UpdateMarketValue(bid, ask)
	return p, nil
}

// Transact applies a fill to an open position. The position is left
// untouched when an error is returned.
func (p *Position) Transact(action event.Action, qty int64, price, commission market.Price) error {
	if err := checkTrade(action, qty); err != nil {
		return fmt.Errorf("transact %s: %w", p.Ticker, err)
	}

	p.TotalCommission += commission

	switch action {
	case event.Bot:
		p.AvgBot = market.FloorDiv(p.AvgBot*p.Buys+price*qty, p.Buys+qty)
		if p.Action == event.Bot {
			p.AvgPrice = market.FloorDiv(p.AvgPrice*p.Buys+price*qty+commission, p.Buys+qty)
		} else {
			p.RealisedPnL += qty*(p.AvgPrice-price) - commission
		}
		p.Buys += qty
		p.TotalBot = p.Buys * p.AvgBot

	case event.Sld:
		p.AvgSld = market.FloorDiv(p.AvgSld*p.Sells+price*qty, p.Sells+qty)
		if p.Action == event.Sld {
			p.AvgPrice = market.FloorDiv(p.AvgPrice*p.Sells+price*qty-commission, p.Sells+qty)
			// charged against unrealised until the next revaluation
			p.UnrealisedPnL -= commission
		} else {
			p.RealisedPnL += qty*(price-p.AvgPrice) - commission
		}
		p.Sells += qty
		p.TotalSld = p.Sells * p.AvgSld
	}

	p.Net = p.Buys - p.Sells
	p.Quantity = p.Net
	p.NetTotal = p.TotalSld - p.TotalBot
	p.NetInclComm = p.NetTotal - p.TotalCommission
	p.CostBasis = p.Quantity * p.AvgPrice
	return nil
}

// UpdateMarketValue revalues the position at the floored midpoint.
// Shorts carry a negative market value against their negative cost
// basis, so a falling price yields a positive unrealised PnL.
func (p *Position) UpdateMarketValue(bid, ask market.Price) {
	mid := market.Mid(bid, ask)
	p.MarketValue = market.Abs(p.Quantity) * mid * market.Sign(p.Net)
	p.UnrealisedPnL = p.MarketValue - p.CostBasis
}

// IsClosed reports whether the net quantity is back to zero.
func (p *Position) IsClosed() bool {
	return p.Quantity == 0
}

// IsLong reports whether the position is net long.
func (p *Position) IsLong() bool {
	return p.Net > 0
}

func (p *Position) String() string {
	return fmt.Sprintf("%s %s qty=%d avg=%s cost=%s mv=%s upnl=%s rpnl=%s",
		p.Ticker, p.Action, p.Quantity,
		market.Format(p.AvgPrice, 4), market.Format(p.CostBasis, 2), market.Format(p.MarketValue, 2),
		market.Format(p.UnrealisedPnL, 2), market.Format(p.RealisedPnL, 2))
}
