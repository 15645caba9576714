package market

import (
	"errors"
	"time"
)

// ErrUnknownTicker is returned when a source has no data for a ticker.
// Callers treat it as "nothing to do this step".
var ErrUnknownTicker = errors.New("unknown ticker")

// PriceSource is the read side of a market data feed.
type PriceSource interface {
	// IsTick reports whether quotes carry bid/ask (ticks) or closes (bars).
	IsTick() bool
	LastTimestamp(ticker string) (time.Time, error)
	BestBidAsk(ticker string) (bid, ask Price, err error)
	LastClose(ticker string) (Price, error)
	LastAdjClose(ticker string) (Price, error)
}

// Quote returns the bid/ask used to value a position. Bar sources have
// no spread, so both sides are the last close.
func Quote(src PriceSource, ticker string) (bid, ask Price, err error) {
	if src.IsTick() {
		return src.BestBidAsk(ticker)
	}
	c, err := src.LastClose(ticker)
	if err != nil {
		return 0, 0, err
	}
	return c, c, nil
}

// Mid is the floored midpoint of bid and ask.
func Mid(bid, ask Price) Price {
	return FloorDiv(bid+ask, 2)
}
