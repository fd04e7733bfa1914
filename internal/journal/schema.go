package journal

// Schema creates the journal tables if they do not exist. Trades are
// append-only; rows are never updated or deleted.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id            TEXT PRIMARY KEY,
	strategy      TEXT NOT NULL,
	trade_date    TEXT NOT NULL,
	entry_time    TEXT NOT NULL,
	exit_time     TEXT NOT NULL,
	entry_spot    REAL NOT NULL,
	exit_spot     REAL NOT NULL,
	short_strike  REAL NOT NULL,
	long_strike   REAL NOT NULL,
	credit        REAL NOT NULL,
	pnl           REAL NOT NULL,
	exit_reason   TEXT NOT NULL,
	result        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_strategy_date
	ON trades (strategy, trade_date);
`
