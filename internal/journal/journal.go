// Package journal keeps an append-only SQLite record of realized trades
// across all strategies, alongside the per-strategy JSON state files.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/proj-blank/lightrain-options/internal/models"
)

// SQLiteJournal stores realized trades in a local SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at path, creating the parent
// directory if needed.
func Open(path string) (*SQLiteJournal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordTrade appends a realized trade for a strategy.
func (j *SQLiteJournal) RecordTrade(strategy string, t models.TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(id, strategy, trade_date, entry_time, exit_time, entry_spot, exit_spot,
		 short_strike, long_strike, credit, pnl, exit_reason, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, strategy, t.Date, t.EntryTime, t.ExitTime, t.EntrySpot, t.ExitSpot,
		t.ShortStrike, t.LongStrike, t.Credit, t.PnL, t.ExitReason, string(t.Result),
	)
	return err
}

// ListTrades returns all recorded trades for a strategy in insertion order.
func (j *SQLiteJournal) ListTrades(strategy string) ([]models.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, trade_date, entry_time, exit_time, entry_spot, exit_spot,
		       short_strike, long_strike, credit, pnl, exit_reason, result
		FROM trades WHERE strategy = ? ORDER BY rowid`, strategy)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var trades []models.TradeRecord
	for rows.Next() {
		var t models.TradeRecord
		var result string
		if err := rows.Scan(&t.ID, &t.Date, &t.EntryTime, &t.ExitTime,
			&t.EntrySpot, &t.ExitSpot, &t.ShortStrike, &t.LongStrike,
			&t.Credit, &t.PnL, &t.ExitReason, &result); err != nil {
			return nil, err
		}
		t.Result = models.Outcome(result)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Summary aggregates recorded trades for a strategy.
func (j *SQLiteJournal) Summary(strategy string) (models.SessionStats, error) {
	row := j.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(pnl), 0)
		FROM trades WHERE strategy = ?`, strategy)

	var stats models.SessionStats
	if err := row.Scan(&stats.Trades, &stats.Wins, &stats.TotalPnL); err != nil {
		return models.SessionStats{}, err
	}
	if stats.Trades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Trades) * 100
	}
	return stats, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
