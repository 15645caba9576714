package session

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/datatrader/config"
	"github.com/rustyeddy/datatrader/event"
	"github.com/rustyeddy/datatrader/internal/id"
	"github.com/rustyeddy/datatrader/journal"
	"github.com/rustyeddy/datatrader/metrics"
	"github.com/rustyeddy/datatrader/portfolio"
	"github.com/rustyeddy/datatrader/pricing"
	"github.com/rustyeddy/datatrader/risk"
	"github.com/rustyeddy/datatrader/sentiment"
	"github.com/rustyeddy/datatrader/sim"
	"github.com/rustyeddy/datatrader/statistics"
	"github.com/rustyeddy/datatrader/strategy"
)

// FromConfig builds a session and every collaborator it needs from cfg.
// The caller must Close the session to flush its journals.
func FromConfig(cfg *config.Config, log zerolog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	typ, err := ParseType(cfg.Session.Type)
	if err != nil {
		return nil, err
	}
	cash, err := cfg.Account.Cash()
	if err != nil {
		return nil, err
	}
	start, end, err := cfg.Session.Range()
	if err != nil {
		return nil, err
	}
	var endTime time.Time
	if typ == Live {
		if endTime, err = cfg.Session.EndTimeValue(); err != nil {
			return nil, err
		}
	}

	q := event.NewQueue()

	feed, tickers, err := newFeed(cfg.Data, start, end, log)
	if err != nil {
		return nil, err
	}

	var sent SentimentSource
	if cfg.Sentiment.Filename != "" {
		h, err := sentiment.NewCSVHandler(cfg.Sentiment.CSVDir, cfg.Sentiment.Filename,
			sentiment.WithTickers(tickers...),
			sentiment.WithDates(start, end),
			sentiment.WithLogger(log),
		)
		if err != nil {
			return nil, fmt.Errorf("sentiment: %w", err)
		}
		sent = h
	}

	params := cfg.Strategy.Params
	params.Tickers = slices.DeleteFunc(slices.Clone(params.Tickers), func(t string) bool {
		return !slices.Contains(tickers, t)
	})
	if len(params.Tickers) == 0 {
		params.Tickers = tickers
	}
	strat, err := strategy.ByName(cfg.Strategy.Name, params, q)
	if err != nil {
		return nil, err
	}

	sizer, err := newSizer(cfg.Sizer)
	if err != nil {
		return nil, err
	}
	rm := newRiskManager(cfg.Risk, log)

	handler := portfolio.NewHandler(cash, q, feed, sizer, rm, portfolio.WithLogger(log))

	rec, err := newRecorder(cfg.Journal, time.Now(), log)
	if err != nil {
		return nil, err
	}

	execOpts := []sim.Option{sim.WithLogger(log)}
	if rec != nil {
		execOpts = append(execOpts, sim.WithCompliance(rec))
	}
	exec := sim.NewExecutionHandler(q, feed, execOpts...)

	opts := Options{
		Type:       typ,
		Title:      cfg.Session.Title,
		EndTime:    endTime,
		Queue:      q,
		Feed:       feed,
		Sentiment:  sent,
		Strategy:   strat,
		Handler:    handler,
		Executor:   exec,
		Statistics: statistics.NewSimple(handler.Portfolio),
		Logger:     &log,
		Metrics:    cfg.Metrics.Addr != "",
	}
	if rec != nil {
		opts.Equity = rec
	}

	s, err := New(opts)
	if err != nil {
		if rec != nil {
			_ = rec.Close()
		}
		return nil, err
	}
	s.RunID = id.New()
	s.strategyName = cfg.Strategy.Name
	s.tickers = tickers
	s.start, s.end = start, end

	if rec != nil {
		s.closers = append(s.closers, rec.Close)
	}
	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		s.closers = append(s.closers, srv.Close)
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
	}
	return s, nil
}

// newFeed opens the price handler and returns the tickers it has data
// for. Tickers without data are dropped with a warning; it fails only
// when none are left.
func newFeed(d config.DataConfig, start, end time.Time, log zerolog.Logger) (Feed, []string, error) {
	opts := []pricing.Option{pricing.WithLogger(log), pricing.WithRange(start, end)}

	var feed interface {
		Feed
		Has(ticker string) bool
	}
	switch d.Kind {
	case "tick":
		feed = pricing.NewTickCSVHandler(d.CSVDir, d.Tickers, opts...)
	case "bar":
		if d.AdjReturns {
			opts = append(opts, pricing.WithAdjReturns())
		}
		feed = pricing.NewBarCSVHandler(d.CSVDir, d.Tickers, opts...)
	default:
		return nil, nil, fmt.Errorf("unknown data kind %q", d.Kind)
	}

	var tickers []string
	for _, t := range d.Tickers {
		if !feed.Has(t) {
			log.Warn().Str("ticker", t).Str("dir", d.CSVDir).Msg("no price data, dropping ticker")
			continue
		}
		tickers = append(tickers, t)
	}
	if len(tickers) == 0 {
		return nil, nil, fmt.Errorf("no price data in %s: %w", d.CSVDir, pricing.ErrNoData)
	}
	return feed, tickers, nil
}

func newSizer(c config.SizerConfig) (portfolio.PositionSizer, error) {
	switch c.Type {
	case "fixed":
		return risk.NewFixedSizer(c.Quantity), nil
	case "naive":
		return risk.NaiveSizer{}, nil
	case "rebalance":
		return risk.NewRebalanceSizer(c.Weights), nil
	case "equity_pct":
		return risk.EquityPctSizer{Pct: c.Pct}, nil
	}
	return nil, fmt.Errorf("unknown sizer %q", c.Type)
}

func newRiskManager(c config.RiskConfig, log zerolog.Logger) portfolio.RiskManager {
	if c.Type != "limits" {
		return risk.ExampleManager{}
	}
	m := risk.NewLimitsManager(c.Limits, log)
	m.OnReject = func(o portfolio.SuggestedOrder, _ risk.Decision) {
		metrics.ObserveRejected(o.Ticker)
	}
	return m
}

// newRecorder opens the configured journals. It returns nil when
// journaling is off.
func newRecorder(c config.JournalConfig, now time.Time, log zerolog.Logger) (*journal.Recorder, error) {
	var js journal.Multi

	if c.Type == "csv" || c.Type == "both" {
		trades := c.TradesFile
		if trades == "" {
			if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
				return nil, err
			}
			trades = filepath.Join(c.OutputDir, journal.TradeLogName(now))
		}
		j, err := journal.NewCSV(trades, c.EquityFile)
		if err != nil {
			return nil, fmt.Errorf("csv journal: %w", err)
		}
		js = append(js, j)
	}

	if c.Type == "sqlite" || c.Type == "both" {
		j, err := journal.NewSQLite(c.DBPath)
		if err != nil {
			_ = js.Close()
			return nil, fmt.Errorf("sqlite journal: %w", err)
		}
		js = append(js, j)
	}

	switch len(js) {
	case 0:
		return nil, nil
	case 1:
		return journal.NewRecorder(js[0], log), nil
	}
	return journal.NewRecorder(js, log), nil
}

// Report summarises a finished run for the Org journal.
func (s *Session) Report(r statistics.Results) *journal.RunReport {
	rep := &journal.RunReport{
		RunID:       s.RunID,
		Created:     time.Now(),
		Title:       s.Title,
		Type:        s.Type.String(),
		Strategy:    s.strategyName,
		Tickers:     s.tickers,
		Start:       s.start,
		End:         s.end,
		Fills:       s.Fills,
		InitialCash: r.InitialEquity,
		FinalEquity: r.FinalEquity,
		NetPnL:      r.NetPnL(),
		ReturnPct:   r.ReturnPct(),
		Sharpe:      r.Sharpe,
		MaxDDPct:    r.MaxDrawdownPct,
	}
	if n := len(s.handler.Portfolio.Positions); n > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("%d positions still open", n))
	}
	return rep
}
