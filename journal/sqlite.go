package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(r FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, timestamp, ticker, action, quantity, exchange, price, commission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp.UTC(), r.Ticker, r.Action.String(),
		r.Quantity, r.Exchange, r.Price, r.Commission,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, equity, realised_pnl, unrealised_pnl, open_positions)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time.UTC(), e.Cash, e.Equity, e.RealisedPnL, e.UnrealisedPnL, e.OpenPositions,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
