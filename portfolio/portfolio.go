// Package portfolio implements the position ledger, the cash/equity
// aggregate built on it and the handler that turns signals into orders
// and fills into ledger updates.
package portfolio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

var (
	ErrPositionExists   = errors.New("position already open")
	ErrPositionNotFound = errors.New("position not open")
)

// Portfolio owns the open positions, the archive of closed ones and the
// account's cash. Equity is
//
//	InitialCash + RealisedPnL + Σ open (MarketValue - CostBasis + RealisedPnL)
//
// where RealisedPnL is only credited when a position closes.
type Portfolio struct {
	prices market.PriceSource
	log    zerolog.Logger

	InitialCash   market.Price
	Cash          market.Price
	Equity        market.Price
	UnrealisedPnL market.Price
	RealisedPnL   market.Price

	Positions       map[string]*Position
	ClosedPositions []*Position
}

type Option func(*Portfolio)

func WithLogger(l zerolog.Logger) Option {
	return func(p *Portfolio) { p.log = l }
}

func New(prices market.PriceSource, cash market.Price, opts ...Option) *Portfolio {
	p := &Portfolio{
		prices:      prices,
		log:         zerolog.Nop(),
		InitialCash: cash,
		Cash:        cash,
		Equity:      cash,
		Positions:   make(map[string]*Position),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prices returns the source positions are valued against.
func (p *Portfolio) Prices() market.PriceSource {
	return p.prices
}

// Get returns the open position for ticker.
func (p *Portfolio) Get(ticker string) (*Position, bool) {
	pos, ok := p.Positions[ticker]
	return pos, ok
}

// Tickers lists the open positions, sorted.
func (p *Portfolio) Tickers() []string {
	out := make([]string, 0, len(p.Positions))
	for t := range p.Positions {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// quote falls back to fallback for both sides when the source cannot
// price ticker.
func (p *Portfolio) quote(ticker string, fallback market.Price) (market.Price, market.Price) {
	bid, ask, err := market.Quote(p.prices, ticker)
	if err != nil {
		p.log.Warn().Err(err).Str("ticker", ticker).Msg("no quote, valuing at trade price")
		return fallback, fallback
	}
	return bid, ask
}

// TransactPosition books a fill: cash first, then the position is
// opened or modified and the portfolio revalued.
func (p *Portfolio) TransactPosition(action event.Action, ticker string, qty int64, price, commission market.Price) error {
	if err := checkTrade(action, qty); err != nil {
		return fmt.Errorf("transact %s: %w", ticker, err)
	}

	switch action {
	case event.Bot:
		p.Cash -= qty*price + commission
	case event.Sld:
		p.Cash += qty*price - commission
	}

	if _, ok := p.Positions[ticker]; !ok {
		return p.AddPosition(action, ticker, qty, price, commission)
	}
	return p.ModifyPosition(action, ticker, qty, price, commission)
}

// AddPosition opens a new position without touching cash. Opening a
// ticker that is already open logs a warning and does nothing.
func (p *Portfolio) AddPosition(action event.Action, ticker string, qty int64, price, commission market.Price) error {
	if _, ok := p.Positions[ticker]; ok {
		p.log.Warn().Str("ticker", ticker).Msg("ticker already in the positions list, could not add a new position")
		return fmt.Errorf("%w: %s", ErrPositionExists, ticker)
	}

	bid, ask := p.quote(ticker, price)
	pos, err := NewPosition(action, ticker, qty, price, commission, bid, ask)
	if err != nil {
		return err
	}
	p.Positions[ticker] = pos
	p.Update()
	return nil
}

// ModifyPosition applies a fill to an open position without touching
// cash. A position whose quantity reaches zero is archived and its
// realised PnL credited. Modifying a ticker that is not open logs a
// warning and does nothing.
func (p *Portfolio) ModifyPosition(action event.Action, ticker string, qty int64, price, commission market.Price) error {
	pos, ok := p.Positions[ticker]
	if !ok {
		p.log.Warn().Str("ticker", ticker).Msg("ticker not in the current position list, could not modify a position")
		return fmt.Errorf("%w: %s", ErrPositionNotFound, ticker)
	}

	if err := pos.Transact(action, qty, price, commission); err != nil {
		return err
	}
	pos.UpdateMarketValue(p.quote(ticker, price))

	if pos.IsClosed() {
		delete(p.Positions, ticker)
		p.RealisedPnL += pos.RealisedPnL
		p.ClosedPositions = append(p.ClosedPositions, pos)
		p.log.Debug().Str("ticker", ticker).Str("realised", market.Format(pos.RealisedPnL, 2)).Msg("position closed")
	}

	p.Update()
	return nil
}

// Update revalues every open position and recomputes equity. A ticker
// the source cannot price keeps its previous valuation.
func (p *Portfolio) Update() {
	p.UnrealisedPnL = 0
	p.Equity = p.RealisedPnL + p.InitialCash

	for _, ticker := range p.Tickers() {
		pos := p.Positions[ticker]
		bid, ask, err := market.Quote(p.prices, ticker)
		if err != nil {
			p.log.Warn().Err(err).Str("ticker", ticker).Msg("no quote, keeping last valuation")
		} else {
			pos.UpdateMarketValue(bid, ask)
		}
		p.UnrealisedPnL += pos.UnrealisedPnL
		p.Equity += pos.MarketValue - pos.CostBasis + pos.RealisedPnL
	}
}

// Summary is a value copy of the portfolio for reporting.
type Summary struct {
	Cash          market.Price
	Equity        market.Price
	RealisedPnL   market.Price
	UnrealisedPnL market.Price
	Open          []Position
	Closed        int
}

func (p *Portfolio) Snapshot() Summary {
	s := Summary{
		Cash:          p.Cash,
		Equity:        p.Equity,
		RealisedPnL:   p.RealisedPnL,
		UnrealisedPnL: p.UnrealisedPnL,
		Closed:        len(p.ClosedPositions),
	}
	for _, t := range p.Tickers() {
		s.Open = append(s.Open, *p.Positions[t])
	}
	return s
}

func (s Summary) String() string {
	str := fmt.Sprintf("cash=%s equity=%s realised=%s unrealised=%s open=%d closed=%d",
		market.Format(s.Cash, 2), market.Format(s.Equity, 2),
		market.Format(s.RealisedPnL, 2), market.Format(s.UnrealisedPnL, 2), len(s.Open), s.Closed)
	for i := range s.Open {
		str += "\n  " + s.Open[i].String()
	}
	return str
}
