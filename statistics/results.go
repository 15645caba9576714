package statistics

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Results struct {
	Sharpe         float64 `yaml:"sharpe"`
	MaxDrawdown    float64 `yaml:"max_drawdown"`
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct"`
	InitialEquity  float64 `yaml:"initial_equity"`
	FinalEquity    float64 `yaml:"final_equity"`

	Timestamps []time.Time `yaml:"timestamps"`
	Equity     []float64   `yaml:"equity"`
	Returns    []float64   `yaml:"equity_returns"`
	Drawdowns  []float64   `yaml:"drawdowns"`
}

// NetPnL is final less initial equity.
func (r Results) NetPnL() float64 {
	return r.FinalEquity - r.InitialEquity
}

// ReturnPct is the total return over the session.
func (r Results) ReturnPct() float64 {
	if r.InitialEquity == 0 {
		return 0
	}
	return r.NetPnL() / r.InitialEquity * 100
}

// Save writes r to path as YAML.
func Save(path string, r Results) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// Load reads results written by Save.
func Load(path string) (Results, error) {
	var r Results
	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to parse results: %w", err)
	}
	return r, nil
}

// FileName is the default results file for a session finished at now.
func FileName(now time.Time) string {
	return "statistics_" + now.UTC().Format("2006-01-02_150405") + ".yaml"
}

func Print(w io.Writer, title string, r Results) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")

	if n := len(r.Timestamps); n > 1 {
		fmt.Fprintf(w, "Start:         %s\n", r.Timestamps[0].Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.Timestamps[n-1].Format(time.RFC3339))
		fmt.Fprintf(w, "Samples:       %d\n", n)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Equity:  %.2f\n", r.InitialEquity)
	fmt.Fprintf(w, "End Equity:    %.2f\n", r.FinalEquity)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.NetPnL())
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.ReturnPct())
	fmt.Fprintf(w, "Sharpe Ratio:  %.4f\n", r.Sharpe)
	fmt.Fprintf(w, "Max Drawdown:  %.2f (%.2f%%)\n", r.MaxDrawdown, r.MaxDrawdownPct)
}
