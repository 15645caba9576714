package indicators

import (
	"fmt"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

// SimpleMA is a streaming Simple Moving Average indicator
type SimpleMA struct {
	period int
	field  Field
	values []market.Price
	sum    int64
}

// NewMA creates a Simple Moving Average of field over period bars.
// A nil field tracks the close.
func NewMA(period int, field Field) *SimpleMA {
	if field == nil {
		field = Close
	}
	return &SimpleMA{
		period: period,
		field:  field,
		values: make([]market.Price, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.values = m.values[:0]
	m.sum = 0
}

func (m *SimpleMA) Update(b event.Bar) {
	m.Add(m.field(b))
}

// Add pushes a raw price, for callers without bars.
func (m *SimpleMA) Add(p market.Price) {
	m.values = append(m.values, p)
	m.sum += p
	// Keep only the last 'period' values
	if len(m.values) > m.period {
		m.sum -= m.values[0]
		m.values = m.values[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.values) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return units(float64(m.sum) / float64(len(m.values)))
}

// ExponentialMA is a streaming Exponential Moving Average indicator
type ExponentialMA struct {
	period     int
	field      Field
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates an Exponential Moving Average of field over period bars,
// seeded with the simple average of the first period values.
func NewEMA(period int, field Field) *ExponentialMA {
	if field == nil {
		field = Close
	}
	return &ExponentialMA{
		period:     period,
		field:      field,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(b event.Bar) {
	e.Add(e.field(b))
}

func (e *ExponentialMA) Add(p market.Price) {
	v := float64(p)
	if e.count < e.period {
		e.warmupSum += v
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
		return
	}
	e.ema = (v-e.ema)*e.multiplier + e.ema
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return units(e.ema)
}
