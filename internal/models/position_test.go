package models

import (
	"testing"
	"time"
)

func TestSpreadPositionDerived(t *testing.T) {
	pos := &SpreadPosition{
		ShortStrike: 25750,
		LongStrike:  25700,
		Credit:      10.4,
		Lots:        2,
	}

	if pos.Width() != 50 {
		t.Errorf("Width = %v, want 50", pos.Width())
	}
	if got := pos.MaxProfit(75); got != 1560 {
		t.Errorf("MaxProfit = %v, want 1560", got)
	}
	if got := pos.MaxLoss(75); got != (50-10.4)*150 {
		t.Errorf("MaxLoss = %v, want %v", got, (50-10.4)*150)
	}
	if pos.HasStop() {
		t.Error("no stop trigger set")
	}
	pos.StopTrigger = 20.8
	if !pos.HasStop() {
		t.Error("stop trigger set")
	}
}

func TestHasStopNilReceiver(t *testing.T) {
	var pos *SpreadPosition
	if pos.HasStop() {
		t.Error("nil position has no stop")
	}
}

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name       string
		pnlPerUnit float64
		credit     float64
		want       Outcome
	}{
		{"full credit", 10.4, 10.4, OutcomeWin},
		{"small gain", 0.5, 10.4, OutcomeWin},
		{"breakeven is a loss label", 0, 10.4, OutcomePartialLoss},
		{"short ITM long OTM", -10.5, 9.5, OutcomePartialLoss},
		{"loss at the credit boundary", -9.5, 9.5, OutcomePartialLoss},
		{"beyond the credit", -40.5, 9.5, OutcomeMaxLoss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOutcome(tt.pnlPerUnit, tt.credit); got != tt.want {
				t.Errorf("ClassifyOutcome(%v, %v) = %q, want %q",
					tt.pnlPerUnit, tt.credit, got, tt.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	trades := []TradeRecord{
		{PnL: 1560},
		{PnL: -780},
		{PnL: 400},
		{PnL: 0},
	}

	stats := ComputeStats(trades)
	if stats.Trades != 4 || stats.Wins != 2 {
		t.Errorf("trades/wins = %d/%d, want 4/2", stats.Trades, stats.Wins)
	}
	if stats.WinRate != 50 {
		t.Errorf("win rate = %v, want 50", stats.WinRate)
	}
	if stats.TotalPnL != 1180 {
		t.Errorf("total pnl = %v, want 1180", stats.TotalPnL)
	}

	empty := ComputeStats(nil)
	if empty.Trades != 0 || empty.WinRate != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestSessionDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, time.January, 6, 11, 30, 0, 0, ist)
	if got := SessionDate(now); got != "2026-01-06" {
		t.Errorf("SessionDate = %q, want 2026-01-06", got)
	}
}
