package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/datatrader/event"
)

var ErrFillNotFound = errors.New("fill not found")

const fillColumns = `fill_id, timestamp, ticker, action, quantity, exchange, price, commission`

type scanner interface {
	Scan(dest ...any) error
}

func scanFill(s scanner) (FillRecord, error) {
	var (
		rec    FillRecord
		action string
	)
	err := s.Scan(
		&rec.ID,
		&rec.Timestamp,
		&rec.Ticker,
		&action,
		&rec.Quantity,
		&rec.Exchange,
		&rec.Price,
		&rec.Commission,
	)
	if err != nil {
		return FillRecord{}, err
	}
	if rec.Action, err = event.ParseAction(action); err != nil {
		return FillRecord{}, err
	}
	return rec, nil
}

// GetFill returns a single fill by ID.
func (j *SQLite) GetFill(fillID string) (FillRecord, error) {
	row := j.db.QueryRow(`SELECT `+fillColumns+` FROM fills WHERE fill_id = ?`, fillID)
	rec, err := scanFill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FillRecord{}, fmt.Errorf("%w: %q", ErrFillNotFound, fillID)
		}
		return FillRecord{}, err
	}
	return rec, nil
}

// ListFills returns every fill in execution order.
func (j *SQLite) ListFills() ([]FillRecord, error) {
	return j.queryFills(`SELECT ` + fillColumns + ` FROM fills ORDER BY timestamp ASC, fill_id ASC`)
}

// ListFillsBetween returns fills whose timestamp is within [start, end).
func (j *SQLite) ListFillsBetween(start, end time.Time) ([]FillRecord, error) {
	return j.queryFills(`
		SELECT `+fillColumns+`
		FROM fills
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, fill_id ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) queryFills(query string, args ...any) ([]FillRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		rec, err := scanFill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns the equity curve in time order.
func (j *SQLite) ListEquity() ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, cash, equity, realised_pnl, unrealised_pnl, open_positions
		FROM equity
		ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(
			&e.Time,
			&e.Cash,
			&e.Equity,
			&e.RealisedPnL,
			&e.UnrealisedPnL,
			&e.OpenPositions,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
