// Package sentiment replays daily per-ticker sentiment scores from a CSV
// file, one day at a time so that no future values leak into a session.
package sentiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
)

const dateLayout = "2006-01-02"

// CSVHandler holds Date,Ticker,Sentiment rows. The sentiment column is a
// number or, failing that, a category label.
type CSVHandler struct {
	rows []event.Sentiment
	log  zerolog.Logger

	// last is the most recent day streamed.
	last time.Time
}

type Option func(*config)

type config struct {
	tickers []string
	start   time.Time
	end     time.Time
	log     zerolog.Logger
}

// WithTickers keeps only the named tickers.
func WithTickers(tickers ...string) Option {
	return func(c *config) { c.tickers = tickers }
}

// WithDates keeps rows dated within [start, end], both ends inclusive.
// A zero bound is open.
func WithDates(start, end time.Time) Option {
	return func(c *config) {
		c.start = start
		c.end = end
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// NewCSVHandler loads dir/filename.
func NewCSVHandler(dir, filename string, opts ...Option) (*CSVHandler, error) {
	c := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}

	f, err := os.Open(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := readRows(f, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &CSVHandler{rows: rows, log: c.log}, nil
}

func readRows(r io.Reader, c config) ([]event.Sentiment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []event.Sentiment
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 3 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(row[0]), time.UTC)
		if err != nil {
			return nil, err
		}
		if !c.start.IsZero() && day.Before(truncate(c.start)) {
			continue
		}
		if !c.end.IsZero() && day.After(truncate(c.end)) {
			continue
		}
		ticker := strings.TrimSpace(row[1])
		if len(c.tickers) > 0 && !slices.Contains(c.tickers, ticker) {
			continue
		}

		s := event.Sentiment{Timestamp: day, Ticker: ticker}
		raw := strings.TrimSpace(row[2])
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			s.Score = v
		} else {
			s.Label = raw
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, func(a, b event.Sentiment) int { return a.Timestamp.Compare(b.Timestamp) })
	return out, nil
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StreamNext puts one sentiment event on q for every row dated on the
// calendar day of date. Events carry date as their timestamp. A day is
// streamed once; later calls for the same day return 0.
func (h *CSVHandler) StreamNext(date time.Time, q event.Sink) int {
	if date.IsZero() {
		h.log.Warn().Msg("no stream date provided for sentiment")
		return 0
	}
	day := truncate(date)
	if day.Equal(h.last) {
		return 0
	}
	h.last = day

	i, _ := slices.BinarySearchFunc(h.rows, day, func(s event.Sentiment, t time.Time) int {
		return s.Timestamp.Compare(t)
	})

	n := 0
	for ; i < len(h.rows) && h.rows[i].Timestamp.Equal(day); i++ {
		s := h.rows[i]
		s.Timestamp = date
		q.Put(s)
		n++
	}
	return n
}

// Len is the number of rows kept after filtering.
func (h *CSVHandler) Len() int {
	return len(h.rows)
}
