// Package pricing replays historical CSV market data as tick and bar
// events and keeps the latest quote per ticker.
package pricing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"
)

var (
	ErrNoData            = errors.New("no price data")
	ErrAlreadySubscribed = errors.New("ticker already subscribed")
)

type Option func(*options)

type options struct {
	start      time.Time
	end        time.Time
	adjReturns bool
	log        zerolog.Logger
}

func defaultOptions() options {
	return options{log: zerolog.Nop()}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRange keeps only rows in [start, end). A zero bound is open.
func WithRange(start, end time.Time) Option {
	return func(o *options) {
		o.start = start
		o.end = end
	}
}

// WithAdjReturns records the adjusted close return of every bar.
func WithAdjReturns() Option {
	return func(o *options) { o.adjReturns = true }
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

type xzFile struct {
	io.Reader
	f *os.File
}

func (x xzFile) Close() error { return x.f.Close() }

// openCSV opens dir/TICKER.csv, falling back to dir/TICKER.csv.xz.
func openCSV(dir, ticker string) (io.ReadCloser, error) {
	path := filepath.Join(dir, ticker+".csv")
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	f, err = os.Open(path + ".xz")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for %s in %s", ErrNoData, ticker, dir)
		}
		return nil, err
	}
	r, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path+".xz", err)
	}
	return xzFile{Reader: r, f: f}, nil
}

var timeLayouts = []string{
	"02.01.2006 15:04:05.000",
	"02.01.2006 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

// parseTime accepts day-first tick timestamps, ISO dates and RFC3339.
// Times without a zone are UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
