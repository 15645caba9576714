package journal

// Prices are stored as fixed-point integers so nothing is lost on a
// round trip through the database.
const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	fill_id TEXT PRIMARY KEY,
	timestamp DATETIME NOT NULL,
	ticker TEXT NOT NULL,
	action TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	exchange TEXT NOT NULL,
	price INTEGER NOT NULL,
	commission INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	cash INTEGER NOT NULL,
	equity INTEGER NOT NULL,
	realised_pnl INTEGER NOT NULL,
	unrealised_pnl INTEGER NOT NULL,
	open_positions INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_timestamp ON fills(timestamp);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
