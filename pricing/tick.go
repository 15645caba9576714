package pricing

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/market"
)

// TickCSVHandler streams Ticker,Time,Bid,Ask rows from one CSV per
// ticker, merged into a single time ordered stream.
type TickCSVHandler struct {
	*market.PriceStore

	dir  string
	opts options
	log  zerolog.Logger

	data   map[string][]event.Tick
	stream []event.Tick
	pos    int
	merged bool
	cont   bool
}

func NewTickCSVHandler(dir string, tickers []string, opts ...Option) *TickCSVHandler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	h := &TickCSVHandler{
		PriceStore: market.NewPriceStore(true),
		dir:        dir,
		opts:       o,
		log:        o.log,
		data:       make(map[string][]event.Tick),
		cont:       true,
	}
	for _, t := range tickers {
		_ = h.SubscribeTicker(t)
	}
	return h
}

// SubscribeTicker loads the ticker's CSV and seeds its quote from the
// first row. Tickers subscribed after streaming has begun are quoted but
// not streamed.
func (h *TickCSVHandler) SubscribeTicker(ticker string) error {
	if h.Has(ticker) {
		h.log.Warn().Str("ticker", ticker).Msg("could not subscribe, already subscribed")
		return fmt.Errorf("%s: %w", ticker, ErrAlreadySubscribed)
	}
	ticks, err := h.load(ticker)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("could not subscribe, no data CSV found")
		return err
	}
	h.data[ticker] = ticks
	first := ticks[0]
	h.SetTick(ticker, first.Time, first.Bid, first.Ask)
	return nil
}

func (h *TickCSVHandler) UnsubscribeTicker(ticker string) {
	h.Remove(ticker)
	delete(h.data, ticker)
}

func (h *TickCSVHandler) load(ticker string) ([]event.Tick, error) {
	rc, err := openCSV(h.dir, ticker)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	var out []event.Tick
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 4 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "ticker") {
				continue
			}
		}
		tk, err := parseTickRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ticker, err)
		}
		if tk.Ticker == "" {
			tk.Ticker = ticker
		}
		if !inRange(tk.Time, h.opts.start, h.opts.end) {
			continue
		}
		out = append(out, tk)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %s: empty file", ErrNoData, ticker)
	}
	return out, nil
}

func parseTickRow(row []string) (event.Tick, error) {
	t, err := parseTime(row[1])
	if err != nil {
		return event.Tick{}, err
	}
	bid, err := market.ParsePrice(row[2])
	if err != nil {
		return event.Tick{}, err
	}
	ask, err := market.ParsePrice(row[3])
	if err != nil {
		return event.Tick{}, err
	}
	return event.Tick{
		Ticker: strings.TrimSpace(row[0]),
		Time:   t,
		Bid:    bid,
		Ask:    ask,
	}, nil
}

func (h *TickCSVHandler) merge() {
	for _, ticks := range h.data {
		h.stream = append(h.stream, ticks...)
	}
	slices.SortStableFunc(h.stream, func(a, b event.Tick) int {
		if c := a.Time.Compare(b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Ticker, b.Ticker)
	})
	h.merged = true
}

// StreamNext puts the next tick on q and records it as the latest
// quote. Once the stream is exhausted Continue reports false.
func (h *TickCSVHandler) StreamNext(q event.Sink) {
	if !h.merged {
		h.merge()
	}
	for h.pos < len(h.stream) {
		tk := h.stream[h.pos]
		h.pos++
		if !h.Has(tk.Ticker) {
			continue
		}
		h.SetTick(tk.Ticker, tk.Time, tk.Bid, tk.Ask)
		q.Put(tk)
		return
	}
	h.cont = false
}

func (h *TickCSVHandler) Continue() bool {
	return h.cont
}
