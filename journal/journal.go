// Package journal records fills and equity snapshots for audit. Nothing
// here is ever read back into a portfolio.
package journal

import (
	"time"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/internal/id"
	"github.com/rustyeddy/datatrader/market"
)

// FillRecord is one executed fill as it is written to the trade log.
type FillRecord struct {
	ID         string
	Timestamp  time.Time
	Ticker     string
	Action     event.Action
	Quantity   int64
	Exchange   string
	Price      market.Price
	Commission market.Price
}

// NewFillRecord stamps f with an id ordered by its fill time.
func NewFillRecord(f event.Fill) FillRecord {
	return FillRecord{
		ID:         id.At(f.Timestamp),
		Timestamp:  f.Timestamp,
		Ticker:     f.Ticker,
		Action:     f.Action,
		Quantity:   f.Quantity,
		Exchange:   f.Exchange,
		Price:      f.Price,
		Commission: f.Commission,
	}
}

type EquitySnapshot struct {
	Time          time.Time
	Cash          market.Price
	Equity        market.Price
	RealisedPnL   market.Price
	UnrealisedPnL market.Price
	OpenPositions int
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
