// Package strategy turns market and sentiment events into trading
// signals. Strategies never size or route orders; they only put
// event.Signal values on the queue.
package strategy

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/datatrader/event"
)

// Strategy reacts to a dispatched event, possibly emitting signals.
type Strategy interface {
	CalculateSignals(e event.Event)
}

// Strategies fans each event out to every strategy in order.
type Strategies []Strategy

func (s Strategies) CalculateSignals(e event.Event) {
	for _, st := range s {
		st.CalculateSignals(e)
	}
}

// Params configures the strategies built by ByName.
type Params struct {
	Tickers       []string `yaml:"tickers" json:"tickers"`
	Quantity      int64    `yaml:"quantity" json:"quantity"`
	ShortWindow   int      `yaml:"short_window" json:"short_window"`
	LongWindow    int      `yaml:"long_window" json:"long_window"`
	BuyThreshold  float64  `yaml:"buy_threshold" json:"buy_threshold"`
	SellThreshold float64  `yaml:"sell_threshold" json:"sell_threshold"`
}

const (
	DefaultQuantity    = 100
	DefaultShortWindow = 100
	DefaultLongWindow  = 300
)

func (p Params) withDefaults() Params {
	if p.Quantity <= 0 {
		p.Quantity = DefaultQuantity
	}
	if p.ShortWindow <= 0 {
		p.ShortWindow = DefaultShortWindow
	}
	if p.LongWindow <= 0 {
		p.LongWindow = DefaultLongWindow
	}
	return p
}

// Names lists the strategies ByName knows.
var Names = []string{"buy_and_hold", "ma_cross", "ema_cross", "monthly_rebalance", "sentiment"}

// ByName builds a strategy that emits its signals onto q.
func ByName(name string, p Params, q event.Sink) (Strategy, error) {
	p = p.withDefaults()
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")

	needTicker := func() error {
		if len(p.Tickers) == 0 {
			return fmt.Errorf("strategy %q needs at least one ticker", name)
		}
		return nil
	}

	switch name {
	case "buy_and_hold", "buyandhold":
		if err := needTicker(); err != nil {
			return nil, err
		}
		all := make(Strategies, 0, len(p.Tickers))
		for _, t := range p.Tickers {
			all = append(all, NewBuyAndHold(t, p.Quantity, q))
		}
		return all, nil

	case "ma_cross", "sma_cross", "ema_cross":
		if err := needTicker(); err != nil {
			return nil, err
		}
		if p.ShortWindow >= p.LongWindow {
			return nil, fmt.Errorf("short window %d must be less than long window %d", p.ShortWindow, p.LongWindow)
		}
		avg := SMA
		if name == "ema_cross" {
			avg = EMA
		}
		return NewMovingAverageCross(p.Tickers[0], q, p.ShortWindow, p.LongWindow, p.Quantity, avg), nil

	case "monthly_rebalance", "rebalance":
		if err := needTicker(); err != nil {
			return nil, err
		}
		return NewMonthlyRebalance(p.Tickers, q), nil

	case "sentiment", "sentdex":
		if err := needTicker(); err != nil {
			return nil, err
		}
		return NewSentimentThreshold(p.Tickers, q, p.BuyThreshold, p.SellThreshold, p.Quantity), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names, ", "))
	}
}
