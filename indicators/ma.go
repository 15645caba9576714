package indicators

import (
	"fmt"

	"github.com/rustyeddy/datatrader/market"
)

// MA calculates the Simple Moving Average of the last period prices,
// in currency units.
func MA(prices []market.Price, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	var sum int64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return units(float64(sum) / float64(period)), nil
}

// EMA calculates the Exponential Moving Average over all prices, seeded
// with the simple average of the first period.
func EMA(prices []market.Price, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for _, p := range prices[:period] {
		sma += float64(p)
	}
	ema := sma / float64(period)

	for _, p := range prices[period:] {
		ema = (float64(p)-ema)*multiplier + ema
	}
	return units(ema), nil
}
