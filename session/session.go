// Package session drives one trading run: it pulls events off the queue
// in FIFO order and routes each one to the component that handles it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/internal/util"
	"github.com/rustyeddy/datatrader/journal"
	"github.com/rustyeddy/datatrader/market"
	"github.com/rustyeddy/datatrader/metrics"
	"github.com/rustyeddy/datatrader/portfolio"
	"github.com/rustyeddy/datatrader/statistics"
)

var (
	ErrMissingComponent = errors.New("session: missing component")
	ErrNoEndTime        = errors.New("session: live session requires an end time")
)

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

type Type int

const (
	Backtest Type = iota
	Live
)

func (t Type) String() string {
	if t == Live {
		return "live"
	}
	return "backtest"
}

// ParseType accepts "backtest" or "live".
func ParseType(s string) (Type, error) {
	switch s {
	case "backtest", "":
		return Backtest, nil
	case "live":
		return Live, nil
	}
	return Backtest, fmt.Errorf("session: unknown type %q", s)
}

// Feed is the price handler: a quote source that also produces market
// events on demand.
type Feed interface {
	market.PriceSource
	StreamNext(q event.Sink)
	Continue() bool
}

type SentimentSource interface {
	StreamNext(date time.Time, q event.Sink) int
}

type Strategy interface {
	CalculateSignals(e event.Event)
}

type Executor interface {
	ExecuteOrder(o event.Order) error
}

type Statistics interface {
	Update(ts time.Time, pf *portfolio.Portfolio)
	Results() statistics.Results
}

// EquityRecorder receives a snapshot after every revaluation.
type EquityRecorder interface {
	RecordEquity(journal.EquitySnapshot)
}

// FatalError stops the loop. Summary is the portfolio as it stood when
// the failing event was dispatched.
type FatalError struct {
	Event   event.Event
	Err     error
	Summary portfolio.Summary
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("session: fatal on %v: %v", e.Event, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Options wires a Session. Sentiment, Statistics, Equity and Clock are
// optional.
type Options struct {
	Type    Type
	Title   string
	EndTime time.Time

	Queue     *event.Queue
	Feed      Feed
	Sentiment SentimentSource
	Strategy  Strategy
	Handler   *portfolio.Handler
	Executor  Executor

	Statistics Statistics
	Equity     EquityRecorder

	// Clock defaults to time.Now. Only live sessions consult it.
	Clock func() time.Time
	// PollInterval is how long a live session waits when the feed had
	// nothing new. Defaults to 100ms.
	PollInterval time.Duration

	Logger  *zerolog.Logger
	Metrics bool
}

type Session struct {
	RunID       string
	Title       string
	Type        Type
	State       State
	CurrentTime time.Time
	EndTime     time.Time
	Fills       int

	queue     *event.Queue
	feed      Feed
	sentiment SentimentSource
	strategy  Strategy
	handler   *portfolio.Handler
	executor  Executor
	stats     Statistics
	equity    EquityRecorder

	clock   func() time.Time
	poll    time.Duration
	metrics bool
	log     zerolog.Logger

	strategyName string
	tickers      []string
	start, end   time.Time

	closers []func() error
}

// New validates o and returns a stopped session.
func New(o Options) (*Session, error) {
	switch {
	case o.Queue == nil:
		return nil, fmt.Errorf("%w: queue", ErrMissingComponent)
	case o.Feed == nil:
		return nil, fmt.Errorf("%w: price feed", ErrMissingComponent)
	case o.Strategy == nil:
		return nil, fmt.Errorf("%w: strategy", ErrMissingComponent)
	case o.Handler == nil:
		return nil, fmt.Errorf("%w: portfolio handler", ErrMissingComponent)
	case o.Executor == nil:
		return nil, fmt.Errorf("%w: execution handler", ErrMissingComponent)
	}
	if o.Type == Live && o.EndTime.IsZero() {
		return nil, ErrNoEndTime
	}

	s := &Session{
		Title:     o.Title,
		Type:      o.Type,
		State:     Stopped,
		EndTime:   o.EndTime,
		queue:     o.Queue,
		feed:      o.Feed,
		sentiment: o.Sentiment,
		strategy:  o.Strategy,
		handler:   o.Handler,
		executor:  o.Executor,
		stats:     o.Statistics,
		equity:    o.Equity,
		clock:     o.Clock,
		poll:      o.PollInterval,
		metrics:   o.Metrics,
		log:       util.Nop(),
	}
	if o.Logger != nil {
		s.log = *o.Logger
	}
	if s.stats == nil {
		s.stats = statistics.NewSimple(o.Handler.Portfolio)
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.poll <= 0 {
		s.poll = 100 * time.Millisecond
	}
	if s.Type == Live {
		s.CurrentTime = s.clock()
	}
	return s, nil
}

func (s *Session) Portfolio() *portfolio.Portfolio {
	return s.handler.Portfolio
}

func (s *Session) Statistics() Statistics {
	return s.stats
}

// continueLoop is evaluated before every dequeue.
func (s *Session) continueLoop() bool {
	if s.Type == Live {
		return s.clock().Before(s.EndTime)
	}
	return s.feed.Continue()
}

// Run dispatches events until the feed is exhausted (backtest), the end
// time passes (live), ctx is cancelled or a handler fails. Failures are
// returned as *FatalError.
func (s *Session) Run(ctx context.Context) error {
	s.State = Running
	defer func() { s.State = Stopped }()

	s.log.Info().Str("title", s.Title).Str("type", s.Type.String()).Msg("session started")

	for s.continueLoop() {
		if err := ctx.Err(); err != nil {
			s.log.Info().Err(err).Msg("session cancelled")
			return err
		}

		e, ok := s.queue.Get()
		if !ok {
			s.feed.StreamNext(s.queue)
			if s.Type == Live && s.queue.Len() == 0 {
				if err := s.wait(ctx); err != nil {
					return err
				}
			}
			continue
		}

		if err := s.dispatch(e); err != nil {
			fe := &FatalError{Event: e, Err: err, Summary: s.handler.Portfolio.Snapshot()}
			s.log.Error().Err(err).Str("kind", e.Kind().String()).Msg("session aborted")
			return fe
		}
	}

	if n := s.queue.Len(); n > 0 {
		s.log.Warn().Int("pending", n).Msg("session stopped with queued events")
	}
	s.log.Info().Str("title", s.Title).Msg("session stopped")
	return nil
}

func (s *Session) wait(ctx context.Context) error {
	t := time.NewTimer(s.poll)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Session) dispatch(e event.Event) error {
	if s.metrics {
		metrics.ObserveEvent(e.Kind().String())
	}

	switch ev := e.(type) {
	case event.Tick:
		s.onMarket(ev, ev.Time)
	case event.Bar:
		s.onMarket(ev, ev.Time)
	case event.Sentiment:
		s.strategy.CalculateSignals(ev)
	case event.Signal:
		s.handler.OnSignal(ev)
	case event.Order:
		if err := s.executor.ExecuteOrder(ev); err != nil {
			return err
		}
	case event.Fill:
		if err := s.handler.OnFill(ev); err != nil {
			return err
		}
		s.Fills++
		if s.metrics {
			metrics.ObserveFill(ev.Ticker, ev.Action.String())
		}
	default:
		return fmt.Errorf("%w: %T", event.ErrUnsupportedEvent, e)
	}
	return nil
}

// onMarket handles a tick or bar: sentiment for the day, then the
// strategy, then revaluation and the equity curve.
func (s *Session) onMarket(e event.Event, ts time.Time) {
	s.CurrentTime = ts
	if s.sentiment != nil {
		s.sentiment.StreamNext(ts, s.queue)
	}
	s.strategy.CalculateSignals(e)
	s.handler.UpdatePortfolioValue()

	pf := s.handler.Portfolio
	s.stats.Update(ts, pf)

	if s.metrics {
		metrics.SetAccount(market.Display(pf.Cash), market.Display(pf.Equity), len(pf.Positions))
	}
	if s.equity != nil {
		s.equity.RecordEquity(journal.EquitySnapshot{
			Time:          ts,
			Cash:          pf.Cash,
			Equity:        pf.Equity,
			RealisedPnL:   pf.RealisedPnL,
			UnrealisedPnL: pf.UnrealisedPnL,
			OpenPositions: len(pf.Positions),
		})
	}
}

// StartTrading runs the session to completion and returns its
// statistics.
func (s *Session) StartTrading(ctx context.Context) (statistics.Results, error) {
	if err := s.Run(ctx); err != nil {
		return s.stats.Results(), err
	}
	r := s.stats.Results()
	s.log.Info().Float64("sharpe", r.Sharpe).Float64("max_drawdown_pct", r.MaxDrawdownPct).
		Msgf("%s complete", s.Type)
	return r, nil
}

// Close releases whatever FromConfig opened.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
