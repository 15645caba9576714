package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rustyeddy/datatrader/market"
)

// TradeLogHeader is the column order of the trade log.
var TradeLogHeader = []string{"timestamp", "ticker", "action", "quantity", "exchange", "price", "commission"}

var equityHeader = []string{"time", "cash", "equity", "realised_pnl", "unrealised_pnl", "open_positions"}

// TradeLogName is the default trade log file name for a session started on day.
func TradeLogName(day time.Time) string {
	return fmt.Sprintf("tradelog_%s.csv", day.Format("2006-01-02"))
}

// CSVJournal writes fills, and optionally equity snapshots, as CSV.
// Existing files are truncated.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

// NewCSV creates the trade log at tradesPath. An empty equityPath skips
// the equity log.
func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	j := &CSVJournal{trades: csv.NewWriter(tf), tf: tf}
	if err := writeHeader(j.trades, TradeLogHeader); err != nil {
		tf.Close()
		return nil, err
	}

	if equityPath == "" {
		return j, nil
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}
	j.ef = ef
	j.equity = csv.NewWriter(ef)
	if err := writeHeader(j.equity, equityHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

// NewTradeLog creates dir/tradelog_YYYY-MM-DD.csv for day.
func NewTradeLog(dir string, day time.Time) (*CSVJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return NewCSV(filepath.Join(dir, TradeLogName(day)), "")
}

func writeHeader(w *csv.Writer, header []string) error {
	if err := w.Write(header); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordFill(r FillRecord) error {
	err := j.trades.Write([]string{
		r.Timestamp.Format(time.RFC3339),
		r.Ticker,
		r.Action.String(),
		strconv.FormatInt(r.Quantity, 10),
		r.Exchange,
		f(r.Price),
		f(r.Commission),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	if j.equity == nil {
		return nil
	}
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Cash),
		f(e.Equity),
		f(e.RealisedPnL),
		f(e.UnrealisedPnL),
		strconv.Itoa(e.OpenPositions),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	errs := []error{j.trades.Error(), j.tf.Close()}
	if j.equity != nil {
		j.equity.Flush()
		errs = append(errs, j.equity.Error(), j.ef.Close())
	}
	return errors.Join(errs...)
}

func f(p market.Price) string {
	return market.Format(p, market.DisplayPlaces)
}
