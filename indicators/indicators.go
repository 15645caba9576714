// Package indicators provides streaming technical indicators over bars.
package indicators

import (
	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

// Indicator computes a single streaming value from bars.
// It is deterministic and safe to use in live and backtest sessions.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	Reset()

	// Update consumes the next closed bar.
	Update(b event.Bar)

	Ready() bool

	// Value returns the current value in currency units, 0 until Ready.
	Value() float64
}

// Field picks the price an indicator tracks from a bar.
type Field func(event.Bar) market.Price

func Close(b event.Bar) market.Price    { return b.Close }
func AdjClose(b event.Bar) market.Price { return b.AdjClose }

func units(p float64) float64 {
	return p / float64(market.Multiplier)
}
