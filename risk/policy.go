package risk

// Policy holds the limits LimitsManager enforces. Zero disables a limit.
type Policy struct {
	// MaxOrderQuantity caps the shares on a single order.
	MaxOrderQuantity int64 `json:"max_order_quantity" yaml:"max_order_quantity"`

	// MaxOpenPositions caps the number of tickers held at once.
	MaxOpenPositions int `json:"max_open_positions" yaml:"max_open_positions"`

	// MaxNotionalPct caps an order's notional as a fraction of equity (0.25 = 25%).
	MaxNotionalPct float64 `json:"max_notional_pct" yaml:"max_notional_pct"`

	// AllowShort permits orders that leave a ticker net short.
	AllowShort bool `json:"allow_short" yaml:"allow_short"`
}

// DefaultPolicy is permissive enough for the example strategies.
func DefaultPolicy() Policy {
	return Policy{
		MaxOrderQuantity: 10_000,
		MaxOpenPositions: 20,
		MaxNotionalPct:   1.0,
		AllowShort:       true,
	}
}
