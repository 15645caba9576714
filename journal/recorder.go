package journal

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
)

// Recorder adapts a Journal to the execution handler's compliance hook.
// Write failures are logged and never reach the trading loop.
type Recorder struct {
	j   Journal
	log zerolog.Logger
}

func NewRecorder(j Journal, log zerolog.Logger) *Recorder {
	return &Recorder{j: j, log: log}
}

func (r *Recorder) RecordTrade(f event.Fill) {
	if err := r.j.RecordFill(NewFillRecord(f)); err != nil {
		r.log.Error().Err(err).Str("ticker", f.Ticker).Msg("record fill")
	}
}

func (r *Recorder) RecordEquity(e EquitySnapshot) {
	if err := r.j.RecordEquity(e); err != nil {
		r.log.Error().Err(err).Time("time", e.Time).Msg("record equity")
	}
}

func (r *Recorder) Close() error {
	return r.j.Close()
}

// Multi fans every record out to each journal in turn.
type Multi []Journal

func (m Multi) RecordFill(r FillRecord) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordFill(r))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordEquity(e EquitySnapshot) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordEquity(e))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.Close())
	}
	return errors.Join(errs...)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error       { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
