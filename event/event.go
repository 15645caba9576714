// Package event defines the closed set of events that flow through a
// trading session and the FIFO queue that carries them.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/datatrader/market"
)

var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnsupportedEvent = errors.New("unsupported event")
)

// Kind tags each event variant.
type Kind int

const (
	KindTick Kind = iota + 1
	KindBar
	KindSignal
	KindOrder
	KindFill
	KindSentiment
)

var kindNames = map[Kind]string{
	KindTick:      "TICK",
	KindBar:       "BAR",
	KindSignal:    "SIGNAL",
	KindOrder:     "ORDER",
	KindFill:      "FILL",
	KindSentiment: "SENTIMENT",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Action is the side of a signal, order or fill. Exit only appears on
// signals and is resolved into Bot or Sld by a position sizer.
type Action int

const (
	Bot Action = iota + 1
	Sld
	Exit
)

func (a Action) String() string {
	switch a {
	case Bot:
		return "BOT"
	case Sld:
		return "SLD"
	case Exit:
		return "EXIT"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// IsTrade reports whether a can appear on an order or fill.
func (a Action) IsTrade() bool {
	return a == Bot || a == Sld
}

// Opposite returns the closing side of a trade action.
func (a Action) Opposite() Action {
	switch a {
	case Bot:
		return Sld
	case Sld:
		return Bot
	}
	return a
}

func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BOT", "BUY":
		return Bot, nil
	case "SLD", "SELL":
		return Sld, nil
	case "EXIT":
		return Exit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Event is implemented only by the variants in this package.
type Event interface {
	Kind() Kind
	fmt.Stringer
	isEvent()
}

// Tick is a top of book update.
type Tick struct {
	Ticker string
	Time   time.Time
	Bid    market.Price
	Ask    market.Price
}

// Bar is an OHLCV bar; Period is in seconds.
type Bar struct {
	Ticker   string
	Time     time.Time
	Period   int64
	Open     market.Price
	High     market.Price
	Low      market.Price
	Close    market.Price
	Volume   int64
	AdjClose market.Price
}

// Signal is a strategy's trade intent. SuggestedQuantity is zero when
// the strategy leaves sizing to the position sizer.
type Signal struct {
	Ticker            string
	Action            Action
	SuggestedQuantity int64
}

// Order is a sized, risk-checked request to trade.
type Order struct {
	Ticker   string
	Action   Action
	Quantity int64
}

// Fill is a confirmed execution.
type Fill struct {
	Timestamp  time.Time
	Ticker     string
	Action     Action
	Quantity   int64
	Exchange   string
	Price      market.Price
	Commission market.Price
}

// Sentiment carries either a numeric score or a category label.
type Sentiment struct {
	Timestamp time.Time
	Ticker    string
	Score     float64
	Label     string
}

// IsNumeric reports whether the sentiment is a score rather than a label.
func (s Sentiment) IsNumeric() bool {
	return s.Label == ""
}

func (Tick) Kind() Kind      { return KindTick }
func (Bar) Kind() Kind       { return KindBar }
func (Signal) Kind() Kind    { return KindSignal }
func (Order) Kind() Kind     { return KindOrder }
func (Fill) Kind() Kind      { return KindFill }
func (Sentiment) Kind() Kind { return KindSentiment }

func (Tick) isEvent()      {}
func (Bar) isEvent()       {}
func (Signal) isEvent()    {}
func (Order) isEvent()     {}
func (Fill) isEvent()      {}
func (Sentiment) isEvent() {}

func (e Tick) String() string {
	return fmt.Sprintf("Tick(%s, %s, %s/%s)", e.Ticker, e.Time.Format(time.RFC3339Nano),
		market.Format(e.Bid, 5), market.Format(e.Ask, 5))
}

func (e Bar) String() string {
	return fmt.Sprintf("Bar(%s, %s, %s, O:%s H:%s L:%s C:%s V:%d AC:%s)",
		e.Ticker, e.Time.Format(time.RFC3339), e.PeriodReadable(),
		market.Format(e.Open, 2), market.Format(e.High, 2), market.Format(e.Low, 2),
		market.Format(e.Close, 2), e.Volume, market.Format(e.AdjClose, 2))
}

func (e Signal) String() string {
	return fmt.Sprintf("Signal(%s, %s, %d)", e.Ticker, e.Action, e.SuggestedQuantity)
}

func (e Order) String() string {
	return fmt.Sprintf("Order(%s, %s, %d)", e.Ticker, e.Action, e.Quantity)
}

func (e Fill) String() string {
	return fmt.Sprintf("Fill(%s, %s, %s, %d @ %s, comm %s, %s)", e.Timestamp.Format(time.RFC3339),
		e.Ticker, e.Action, e.Quantity, market.Format(e.Price, 2), market.Format(e.Commission, 2), e.Exchange)
}

func (e Sentiment) String() string {
	if e.IsNumeric() {
		return fmt.Sprintf("Sentiment(%s, %s, %g)", e.Timestamp.Format(time.RFC3339), e.Ticker, e.Score)
	}
	return fmt.Sprintf("Sentiment(%s, %s, %s)", e.Timestamp.Format(time.RFC3339), e.Ticker, e.Label)
}

// Time returns the market time carried by ticks and bars.
func Time(e Event) (time.Time, bool) {
	switch v := e.(type) {
	case Tick:
		return v.Time, true
	case Bar:
		return v.Time, true
	}
	return time.Time{}, false
}
