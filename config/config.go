package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/datatrader/market"
	"github.com/rustyeddy/datatrader/risk"
	"github.com/rustyeddy/datatrader/strategy"
)

const dateLayout = "2006-01-02"

// Config represents a complete trading session
type Config struct {
	Session    SessionConfig    `json:"session" yaml:"session"`
	Account    AccountConfig    `json:"account" yaml:"account"`
	Data       DataConfig       `json:"data" yaml:"data"`
	Sentiment  SentimentConfig  `json:"sentiment" yaml:"sentiment"`
	Strategy   StrategyConfig   `json:"strategy" yaml:"strategy"`
	Sizer      SizerConfig      `json:"sizer" yaml:"sizer"`
	Risk       RiskConfig       `json:"risk" yaml:"risk"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Statistics StatisticsConfig `json:"statistics" yaml:"statistics"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
}

// SessionConfig selects backtest or live mode. Dates are YYYY-MM-DD;
// EndTime is RFC3339 and only used by live sessions.
type SessionConfig struct {
	Type    string `json:"type" yaml:"type"` // "backtest" or "live"
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Start   string `json:"start,omitempty" yaml:"start,omitempty"`
	End     string `json:"end,omitempty" yaml:"end,omitempty"`
	EndTime string `json:"end_time,omitempty" yaml:"end_time,omitempty"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID          string `json:"id" yaml:"id"`
	Currency    string `json:"currency" yaml:"currency"`
	InitialCash string `json:"initial_cash" yaml:"initial_cash"` // decimal, e.g. "500000.00"
}

// DataConfig points at the historical price CSVs
type DataConfig struct {
	Kind       string   `json:"kind" yaml:"kind"` // "tick" or "bar"
	CSVDir     string   `json:"csv_dir" yaml:"csv_dir"`
	Tickers    []string `json:"tickers" yaml:"tickers"`
	AdjReturns bool     `json:"adj_returns,omitempty" yaml:"adj_returns,omitempty"`
}

// SentimentConfig is optional; an empty Filename disables sentiment.
type SentimentConfig struct {
	CSVDir   string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
}

type StrategyConfig struct {
	Name            string `json:"name" yaml:"name"`
	strategy.Params `yaml:",inline"`
}

type SizerConfig struct {
	Type     string             `json:"type" yaml:"type"` // fixed, naive, rebalance, equity_pct
	Quantity int64              `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Weights  map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
	Pct      float64            `json:"pct,omitempty" yaml:"pct,omitempty"`
}

type RiskConfig struct {
	Type   string      `json:"type" yaml:"type"` // example or limits
	Limits risk.Policy `json:"limits" yaml:"limits"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // csv, sqlite, both or none
	OutputDir  string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	OrgReport  string `json:"org_report,omitempty" yaml:"org_report,omitempty"`
}

type StatisticsConfig struct {
	Save       bool   `json:"save" yaml:"save"`
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
}

type LogConfig struct {
	Level   string `json:"level" yaml:"level"`
	Console bool   `json:"console,omitempty" yaml:"console,omitempty"`
}

type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"` // empty disables
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Environment variables that override the file.
const (
	EnvLogLevel    = "DATATRADER_LOG_LEVEL"
	EnvCSVDir      = "DATATRADER_CSV_DIR"
	EnvMetricsAddr = "DATATRADER_METRICS_ADDR"
	EnvOutputDir   = "DATATRADER_OUTPUT_DIR"
)

// LoadEnv reads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an
// error.
func LoadEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides fields from DATATRADER_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvCSVDir); v != "" {
		c.Data.CSVDir = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Journal.OutputDir = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Session.Type {
	case "backtest":
	case "live":
		if c.Session.EndTime == "" {
			return fmt.Errorf("session.end_time is required for live sessions")
		}
		if _, err := c.Session.EndTimeValue(); err != nil {
			return fmt.Errorf("session.end_time: %w", err)
		}
	default:
		return fmt.Errorf("session.type must be 'backtest' or 'live'")
	}
	if _, _, err := c.Session.Range(); err != nil {
		return err
	}

	cash, err := c.Account.Cash()
	if err != nil {
		return fmt.Errorf("account.initial_cash: %w", err)
	}
	if cash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}

	if c.Data.Kind != "tick" && c.Data.Kind != "bar" {
		return fmt.Errorf("data.kind must be 'tick' or 'bar'")
	}
	if c.Data.CSVDir == "" {
		return fmt.Errorf("data.csv_dir is required")
	}
	if len(c.Data.Tickers) == 0 {
		return fmt.Errorf("data.tickers must list at least one ticker")
	}

	if c.Sentiment.Filename != "" && c.Sentiment.CSVDir == "" {
		return fmt.Errorf("sentiment.csv_dir is required with sentiment.filename")
	}

	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}

	switch c.Sizer.Type {
	case "fixed", "naive":
	case "rebalance":
		if len(c.Sizer.Weights) == 0 {
			return fmt.Errorf("sizer.weights required for rebalance sizer")
		}
	case "equity_pct":
		if c.Sizer.Pct <= 0 || c.Sizer.Pct > 1 {
			return fmt.Errorf("sizer.pct must be between 0 and 1")
		}
	default:
		return fmt.Errorf("sizer.type must be 'fixed', 'naive', 'rebalance' or 'equity_pct'")
	}

	if c.Risk.Type != "example" && c.Risk.Type != "limits" {
		return fmt.Errorf("risk.type must be 'example' or 'limits'")
	}

	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.OutputDir == "" && c.Journal.TradesFile == "" {
			return fmt.Errorf("journal output_dir or trades_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "both":
		if c.Journal.OutputDir == "" && c.Journal.TradesFile == "" {
			return fmt.Errorf("journal output_dir or trades_file required for CSV type")
		}
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite', 'both' or 'none'")
	}
	return nil
}

// Cash parses the initial cash without going through float64.
func (a AccountConfig) Cash() (market.Price, error) {
	return market.ParsePrice(a.InitialCash)
}

// Range parses the optional start and end dates.
func (s SessionConfig) Range() (start, end time.Time, err error) {
	if s.Start != "" {
		if start, err = time.ParseInLocation(dateLayout, s.Start, time.UTC); err != nil {
			return start, end, fmt.Errorf("session.start: %w", err)
		}
	}
	if s.End != "" {
		if end, err = time.ParseInLocation(dateLayout, s.End, time.UTC); err != nil {
			return start, end, fmt.Errorf("session.end: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return start, end, fmt.Errorf("session.start must be before session.end")
	}
	return start, end, nil
}

func (s SessionConfig) EndTimeValue() (time.Time, error) {
	return time.Parse(time.RFC3339, s.EndTime)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Type:  "backtest",
			Title: "Buy and Hold SPY",
		},
		Account: AccountConfig{
			ID:          "SIM-001",
			Currency:    "USD",
			InitialCash: "500000.00",
		},
		Data: DataConfig{
			Kind:    "bar",
			CSVDir:  "./data",
			Tickers: []string{"SPY"},
		},
		Strategy: StrategyConfig{
			Name: "buy_and_hold",
			Params: strategy.Params{
				Tickers:  []string{"SPY"},
				Quantity: strategy.DefaultQuantity,
			},
		},
		Sizer: SizerConfig{
			Type:     "fixed",
			Quantity: risk.DefaultQuantity,
		},
		Risk: RiskConfig{
			Type:   "example",
			Limits: risk.DefaultPolicy(),
		},
		Journal: JournalConfig{
			Type:      "csv",
			OutputDir: "./out",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
