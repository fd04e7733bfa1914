// Package models provides data structures for spread positions and realized trades.
package models

import "time"

// PositionState represents the lifecycle state of a session position.
type PositionState string

const (
	// StateFlat means no position is held for the current session.
	StateFlat PositionState = "flat"
	// StateOpen means a credit spread is held and being monitored.
	StateOpen PositionState = "open"
)

// TimeLayout is the wall-clock format used for entry/exit timestamps.
const TimeLayout = "15:04:05"

// DateLayout is the calendar-date format used for trade dates and session tracking.
const DateLayout = "2006-01-02"

// SpreadPosition is an open put credit spread for the current trading session.
// ShortStrike - LongStrike always equals the configured spread width.
type SpreadPosition struct {
	ShortStrike float64 `json:"short_strike"`
	LongStrike  float64 `json:"long_strike"`
	Credit      float64 `json:"credit"`
	CreditPct   float64 `json:"credit_pct"`
	EntrySpot   float64 `json:"entry_spot"`
	EntryTime   string  `json:"entry_time"`
	Lots        int     `json:"lots"`
	// StopTrigger is the cost-to-close level that fires the stop-loss exit.
	// Zero means the variant trades without a stop.
	StopTrigger float64 `json:"stop_trigger,omitempty"`
}

// HasStop reports whether this position carries a stop-loss trigger.
func (p *SpreadPosition) HasStop() bool {
	return p != nil && p.StopTrigger > 0
}

// Width returns the spread width in index points.
func (p *SpreadPosition) Width() float64 {
	return p.ShortStrike - p.LongStrike
}

// MaxProfit returns the best-case total P&L for the position.
func (p *SpreadPosition) MaxProfit(lotSize int) float64 {
	return p.Credit * float64(p.Lots) * float64(lotSize)
}

// MaxLoss returns the worst-case total loss for the position (positive number).
func (p *SpreadPosition) MaxLoss(lotSize int) float64 {
	return (p.Width() - p.Credit) * float64(p.Lots) * float64(lotSize)
}

// Outcome labels a realized trade by how it settled.
type Outcome string

const (
	OutcomeWin         Outcome = "WIN"
	OutcomeMaxLoss     Outcome = "MAX LOSS"
	OutcomePartialLoss Outcome = "PARTIAL LOSS"
)

// ClassifyOutcome labels a settled trade from its per-unit P&L and entry credit.
func ClassifyOutcome(pnlPerUnit, credit float64) Outcome {
	switch {
	case pnlPerUnit > 0:
		return OutcomeWin
	case pnlPerUnit < -credit:
		return OutcomeMaxLoss
	default:
		return OutcomePartialLoss
	}
}

// TradeRecord is one realized trade. Records are append-only and never mutated
// after creation.
type TradeRecord struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	EntryTime   string  `json:"entry_time"`
	ExitTime    string  `json:"exit_time"`
	EntrySpot   float64 `json:"entry_spot"`
	ExitSpot    float64 `json:"exit_spot"`
	ShortStrike float64 `json:"short_strike"`
	LongStrike  float64 `json:"long_strike"`
	Credit      float64 `json:"credit"`
	PnL         float64 `json:"pnl"`
	ExitReason  string  `json:"exit_reason"`
	Result      Outcome `json:"result"`
}

// SessionStats summarizes the realized trade history.
type SessionStats struct {
	Trades   int     `json:"trades"`
	Wins     int     `json:"wins"`
	WinRate  float64 `json:"win_rate"`
	TotalPnL float64 `json:"total_pnl"`
}

// ComputeStats aggregates a trade history into session statistics.
// A trade counts as a win when its total P&L is positive.
func ComputeStats(trades []TradeRecord) SessionStats {
	stats := SessionStats{Trades: len(trades)}
	for _, t := range trades {
		if t.PnL > 0 {
			stats.Wins++
		}
		stats.TotalPnL += t.PnL
	}
	if stats.Trades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Trades) * 100
	}
	return stats
}

// SessionDate formats a timestamp as the session's calendar date.
func SessionDate(now time.Time) string {
	return now.Format(DateLayout)
}
