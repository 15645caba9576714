package pricing

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

var barColumns = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// BarCSVHandler streams Yahoo Finance daily bars,
// Date,Open,High,Low,Close,Adj Close,Volume, one CSV per ticker, ordered
// by date and then ticker.
type BarCSVHandler struct {
	*market.PriceStore

	dir  string
	opts options
	log  zerolog.Logger

	data   map[string][]event.Bar
	stream []event.Bar
	pos    int
	merged bool
	cont   bool

	adjClose        map[string]market.Price
	AdjCloseReturns []float64
}

func NewBarCSVHandler(dir string, tickers []string, opts ...Option) *BarCSVHandler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	h := &BarCSVHandler{
		PriceStore: market.NewPriceStore(false),
		dir:        dir,
		opts:       o,
		log:        o.log,
		data:       make(map[string][]event.Bar),
		adjClose:   make(map[string]market.Price),
		cont:       true,
	}
	for _, t := range tickers {
		_ = h.SubscribeTicker(t)
	}
	return h
}

// SubscribeTicker loads the ticker's CSV and seeds its close and
// adjusted close from the first row in the file.
func (h *BarCSVHandler) SubscribeTicker(ticker string) error {
	if h.Has(ticker) {
		h.log.Warn().Str("ticker", ticker).Msg("could not subscribe, already subscribed")
		return fmt.Errorf("%s: %w", ticker, ErrAlreadySubscribed)
	}
	bars, err := h.load(ticker)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("could not subscribe, no data CSV found")
		return err
	}
	first := bars[0]
	h.SetBar(ticker, first.Time, first.Close, first.AdjClose)
	h.adjClose[ticker] = first.AdjClose

	h.data[ticker] = slices.DeleteFunc(bars, func(b event.Bar) bool {
		return !inRange(b.Time, h.opts.start, h.opts.end)
	})
	return nil
}

func (h *BarCSVHandler) UnsubscribeTicker(ticker string) {
	h.Remove(ticker)
	delete(h.data, ticker)
	delete(h.adjClose, ticker)
}

func (h *BarCSVHandler) load(ticker string) ([]event.Bar, error) {
	rc, err := openCSV(h.dir, ticker)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrNoData, ticker, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}

	var out []event.Bar
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		b, err := parseBarRow(ticker, row, idx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ticker, err)
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %s: empty file", ErrNoData, ticker)
	}
	slices.SortStableFunc(out, func(a, b event.Bar) int { return a.Time.Compare(b.Time) })
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, c := range barColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}
	return idx, nil
}

func parseBarRow(ticker string, row []string, idx map[string]int) (event.Bar, error) {
	col := func(name string) string { return row[idx[name]] }

	t, err := parseTime(col("Date"))
	if err != nil {
		return event.Bar{}, err
	}
	prices := make(map[string]market.Price, 5)
	for _, c := range []string{"Open", "High", "Low", "Close", "Adj Close"} {
		p, err := market.ParsePrice(col(c))
		if err != nil {
			return event.Bar{}, err
		}
		prices[c] = p
	}
	vol, err := strconv.ParseInt(strings.TrimSpace(col("Volume")), 10, 64)
	if err != nil {
		return event.Bar{}, fmt.Errorf("volume %q: %w", col("Volume"), err)
	}
	return event.Bar{
		Ticker:   ticker,
		Time:     t,
		Period:   event.DailyPeriod,
		Open:     prices["Open"],
		High:     prices["High"],
		Low:      prices["Low"],
		Close:    prices["Close"],
		Volume:   vol,
		AdjClose: prices["Adj Close"],
	}, nil
}

func (h *BarCSVHandler) merge() {
	for _, bars := range h.data {
		h.stream = append(h.stream, bars...)
	}
	slices.SortStableFunc(h.stream, func(a, b event.Bar) int {
		if c := a.Time.Compare(b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Ticker, b.Ticker)
	})
	h.merged = true
}

// StreamNext puts the next bar on q and records its close. Once the
// stream is exhausted Continue reports false.
func (h *BarCSVHandler) StreamNext(q event.Sink) {
	if !h.merged {
		h.merge()
	}
	for h.pos < len(h.stream) {
		b := h.stream[h.pos]
		h.pos++
		if !h.Has(b.Ticker) {
			continue
		}
		h.store(b)
		q.Put(b)
		return
	}
	h.cont = false
}

func (h *BarCSVHandler) store(b event.Bar) {
	if h.opts.adjReturns {
		prev := market.ToDisplay(h.adjClose[b.Ticker], 7).InexactFloat64()
		cur := market.ToDisplay(b.AdjClose, 7).InexactFloat64()
		if prev != 0 {
			h.AdjCloseReturns = append(h.AdjCloseReturns, cur/prev-1.0)
		}
	}
	h.adjClose[b.Ticker] = b.AdjClose
	h.SetBar(b.Ticker, b.Time, b.Close, b.AdjClose)
}

func (h *BarCSVHandler) Continue() bool {
	return h.cont
}
