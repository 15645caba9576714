package market

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// LastQuote is the latest known state of one ticker.
type LastQuote struct {
	Time     time.Time
	Bid      Price
	Ask      Price
	Close    Price
	AdjClose Price
}

// Spread is Ask - Bid.
func (q LastQuote) Spread() Price {
	return q.Ask - q.Bid
}

// PriceStore keeps the last quote per ticker and serves it through
// PriceSource. Feeds embed one and write to it as they stream.
type PriceStore struct {
	mu     sync.RWMutex
	tick   bool
	quotes map[string]LastQuote
}

func NewPriceStore(tick bool) *PriceStore {
	return &PriceStore{tick: tick, quotes: make(map[string]LastQuote)}
}

func (ps *PriceStore) IsTick() bool {
	return ps.tick
}

func (ps *PriceStore) Set(ticker string, q LastQuote) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.quotes[ticker] = q
}

// SetTick records a bid/ask update.
func (ps *PriceStore) SetTick(ticker string, t time.Time, bid, ask Price) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	q := ps.quotes[ticker]
	q.Time, q.Bid, q.Ask = t, bid, ask
	ps.quotes[ticker] = q
}

// SetBar records a close/adjusted close update.
func (ps *PriceStore) SetBar(ticker string, t time.Time, close, adjClose Price) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	q := ps.quotes[ticker]
	q.Time, q.Close, q.AdjClose = t, close, adjClose
	ps.quotes[ticker] = q
}

func (ps *PriceStore) Get(ticker string) (LastQuote, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	q, ok := ps.quotes[ticker]
	if !ok {
		return LastQuote{}, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	return q, nil
}

func (ps *PriceStore) Has(ticker string) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	_, ok := ps.quotes[ticker]
	return ok
}

func (ps *PriceStore) Remove(ticker string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delete(ps.quotes, ticker)
}

// Tickers returns the known tickers, sorted.
func (ps *PriceStore) Tickers() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]string, 0, len(ps.quotes))
	for t := range ps.quotes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (ps *PriceStore) LastTimestamp(ticker string) (time.Time, error) {
	q, err := ps.Get(ticker)
	return q.Time, err
}

func (ps *PriceStore) BestBidAsk(ticker string) (Price, Price, error) {
	q, err := ps.Get(ticker)
	return q.Bid, q.Ask, err
}

func (ps *PriceStore) LastClose(ticker string) (Price, error) {
	q, err := ps.Get(ticker)
	return q.Close, err
}

func (ps *PriceStore) LastAdjClose(ticker string) (Price, error) {
	q, err := ps.Get(ticker)
	return q.AdjClose, err
}
